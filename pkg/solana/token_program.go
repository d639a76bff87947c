package solana

import (
	"github.com/gagliardetto/solana-go"
)

// 托管程序常量
var (
	// 系统程序（账户的基础分配者）
	SYSTEM_PROGRAM_ID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")

	// 传统 Token 程序地址
	TOKEN_PROGRAM_ID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	// Token-2022 扩展程序地址
	TOKEN_2022_PROGRAM_ID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
)

// IsToken 判断程序是否为传统 Token 程序
func IsToken(program solana.PublicKey) bool {
	return program.Equals(TOKEN_PROGRAM_ID)
}

// IsToken2022 判断程序是否为 Token-2022 扩展程序
func IsToken2022(program solana.PublicKey) bool {
	return program.Equals(TOKEN_2022_PROGRAM_ID)
}

// IsCustodyProgram 判断程序是否为任一受支持的托管程序
func IsCustodyProgram(program solana.PublicKey) bool {
	return IsToken(program) || IsToken2022(program)
}

// CustodyProgramForMint 由 mint 的实际所有者决定金库应归属哪个托管程序。
// 所有者不是已知托管程序时返回 false。
func CustodyProgramForMint(mintOwner solana.PublicKey) (solana.PublicKey, bool) {
	if !IsCustodyProgram(mintOwner) {
		return solana.PublicKey{}, false
	}
	return mintOwner, true
}

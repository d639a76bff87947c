package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AMM 程序常量
var (
	// 池程序地址
	AMM_PROGRAM_ID = solana.MustPublicKeyFromBase58("BhMytjaPHXEFyEUnZC7FMSU76fx34quXvKVkFa9PmZ2w")
)

// PDA 种子常量
var (
	SEED_POOL_STATE = []byte("pool_state")
	SEED_AUTHORITY  = []byte("authority")
	SEED_VAULT0     = []byte("vault0")
	SEED_VAULT1     = []byte("vault1")
	SEED_POOL_MINT  = []byte("pool_mint")
	SEED_VAULT      = []byte("vault")
	SEED_LP_MINT    = []byte("lp_mint")
	SEED_POOL_PDA   = []byte("pool_pda")
)

// PDAResult 表示 PDA 计算结果
type PDAResult struct {
	Address solana.PublicKey
	Bump    uint8
}

// GetPoolStatePDA 获取池状态账户 PDA，由两侧 mint 唯一确定
func GetPoolStatePDA(mint0, mint1 solana.PublicKey) (PDAResult, error) {
	seeds := [][]byte{
		SEED_POOL_STATE,
		mint0[:],
		mint1[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find pool state PDA: %w", err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

// GetPoolAuthorityPDA 获取池权限 PDA，金库与份额铸造的唯一签名者
func GetPoolAuthorityPDA(poolState solana.PublicKey) (PDAResult, error) {
	seeds := [][]byte{
		SEED_AUTHORITY,
		poolState[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find pool authority PDA: %w", err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

// GetVaultPDA 获取双代币池指定一侧的金库 PDA，side 只接受 0 或 1
func GetVaultPDA(poolState solana.PublicKey, side uint8) (PDAResult, error) {
	seed := SEED_VAULT0
	if side == 1 {
		seed = SEED_VAULT1
	}
	seeds := [][]byte{
		seed,
		poolState[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find vault%d PDA: %w", side, err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

// GetPoolMintPDA 获取份额代币 mint 的 PDA
func GetPoolMintPDA(poolState solana.PublicKey) (PDAResult, error) {
	seeds := [][]byte{
		SEED_POOL_MINT,
		poolState[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find pool mint PDA: %w", err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

// GetNativeVaultPDA 获取原生池代币侧金库 PDA
func GetNativeVaultPDA(poolState solana.PublicKey) (PDAResult, error) {
	seeds := [][]byte{
		SEED_VAULT,
		poolState[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find native vault PDA: %w", err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

// GetLpMintPDA 获取原生池份额代币 mint 的 PDA
func GetLpMintPDA(poolState solana.PublicKey) (PDAResult, error) {
	seeds := [][]byte{
		SEED_LP_MINT,
		poolState[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find lp mint PDA: %w", err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

// GetPoolPdaPDA 获取原生池持币账户 PDA，原生余额直接记在该账户上
func GetPoolPdaPDA(poolState solana.PublicKey) (PDAResult, error) {
	seeds := [][]byte{
		SEED_POOL_PDA,
		poolState[:],
	}

	address, bump, err := solana.FindProgramAddress(seeds, AMM_PROGRAM_ID)
	if err != nil {
		return PDAResult{}, fmt.Errorf("failed to find pool pda PDA: %w", err)
	}

	return PDAResult{
		Address: address,
		Bump:    bump,
	}, nil
}

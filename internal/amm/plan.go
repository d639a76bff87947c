package amm

import "github.com/gagliardetto/solana-go"

// DerivedSigner represents a derived-address proof (seed + pool identity + bump).
// 金库资金只能由该派生签名者移动，禁止替换为用户提供的签名者。
type DerivedSigner struct {
	Seed []byte
	Pool solana.PublicKey
	Bump uint8
}

// StepKind 标识资产托管服务需要执行的一个动作
type StepKind int

const (
	StepFundRent StepKind = iota // 从付款人转入最低租金
	StepAllocate                 // 分配账户存储
	StepAssign                   // 转移账户所有权给托管程序
	StepInitialize               // 初始化为指定 mint 的余额记录
	StepTransfer                 // 余额转移
	StepMintShares               // 增发份额代币
	StepBurnShares               // 销毁份额代币
)

// Step represents one custody action in a mutation plan.
// 引擎只产出计划，实际执行由外部托管服务完成。
type Step struct {
	Kind      StepKind
	Account   solana.PublicKey // 目标账户
	From      solana.PublicKey // StepFundRent / StepTransfer 的来源
	Mint      solana.PublicKey // StepInitialize / StepMintShares / StepBurnShares
	Authority solana.PublicKey
	Program   solana.PublicKey // StepAssign / StepInitialize 的托管程序
	Amount    uint64
	Space     uint64 // StepAllocate 的存储字节数
	Signer    *DerivedSigner
}

// SwapPlan represents the outcome of a swap computation:
// 转账计划加上更新后的池状态字段。
type SwapPlan struct {
	AmountOut          uint64 // 交易者实际收到
	AmountToVault      uint64 // 实际入池的输入量（扣除原生侧协议费后）
	ProtocolFeeNative  uint64 // 以原生资产计的协议费，0 表示未收取
	FeeWaived          bool   // 国库记录无效时放弃收费的回退路径
	UpdatedState       *PoolState
}

// DepositPlan represents the outcome of a liquidity deposit computation
type DepositPlan struct {
	ShareMint    uint64
	Deposit0     uint64
	Deposit1     uint64
	UpdatedState *PoolState
}

// WithdrawPlan represents the outcome of a share-burn computation
type WithdrawPlan struct {
	Amount0      uint64
	Amount1      uint64
	UpdatedState *PoolState
}

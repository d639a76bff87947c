package amm

import "github.com/gagliardetto/solana-go"

// VaultState 金库准备状态机的各个状态
type VaultState int

const (
	VaultAbsent VaultState = iota
	VaultAllocating
	VaultAssigning
	VaultInitializing
	VaultReady
	VaultForeign // 终态：被其他程序占用，不自动恢复
)

func (s VaultState) String() string {
	switch s {
	case VaultAbsent:
		return "absent"
	case VaultAllocating:
		return "allocating"
	case VaultAssigning:
		return "assigning"
	case VaultInitializing:
		return "initializing"
	case VaultReady:
		return "ready"
	case VaultForeign:
		return "foreign"
	}
	return "unknown"
}

// AccountView represents a consistent snapshot of a custody account
type AccountView struct {
	Address  solana.PublicKey
	Lamports uint64
	DataLen  uint64
	Owner    solana.PublicKey // 当前所有者程序
}

// VaultProvisioner 幂等的金库准备状态机。
// 任何一次中断后重新执行都会收敛到 Ready，不会重复注资或重复初始化。
type VaultProvisioner struct {
	Allocator solana.PublicKey // 基础分配程序（账户的初始所有者）
	Space     uint64           // 余额记录的存储字节数
	Rent      uint64           // 最低租金（预留底线）
}

// Classify 根据账户快照判定当前状态。
// 四路分支：不存在 / 已注资未分配 / 已就绪 / 被占用。
func (p *VaultProvisioner) Classify(view AccountView, custodyProgram solana.PublicKey) VaultState {
	switch {
	case view.Lamports == 0 && view.DataLen == 0:
		return VaultAbsent
	case view.Owner.Equals(p.Allocator) && view.DataLen == 0:
		// 上次执行在注资后被中断
		return VaultAllocating
	case view.Owner.Equals(p.Allocator):
		// 存储已分配但所有权未转移
		return VaultAssigning
	case view.Owner.Equals(custodyProgram):
		return VaultReady
	default:
		return VaultForeign
	}
}

// Provision 产出将金库推进到 Ready 所需的剩余步骤。
// 每一步均由金库自身的派生地址证明签名，payer 仅为注资来源。
// 已处于 Ready 的金库返回空计划且无错误。
func (p *VaultProvisioner) Provision(
	view AccountView,
	custodyProgram solana.PublicKey,
	mint solana.PublicKey,
	authority solana.PublicKey,
	payer solana.PublicKey,
	signer *DerivedSigner,
) (VaultState, []Step, error) {
	state := p.Classify(view, custodyProgram)

	var steps []Step
	switch state {
	case VaultAbsent:
		steps = append(steps, Step{
			Kind:    StepFundRent,
			Account: view.Address,
			From:    payer,
			Amount:  p.Rent,
		})
		fallthrough
	case VaultAllocating:
		steps = append(steps, Step{
			Kind:    StepAllocate,
			Account: view.Address,
			Space:   p.Space,
			Signer:  signer,
		})
		fallthrough
	case VaultAssigning:
		steps = append(steps, Step{
			Kind:    StepAssign,
			Account: view.Address,
			Program: custodyProgram,
			Signer:  signer,
		})
		fallthrough
	case VaultInitializing:
		steps = append(steps, Step{
			Kind:      StepInitialize,
			Account:   view.Address,
			Mint:      mint,
			Authority: authority,
			Program:   custodyProgram,
			Signer:    signer,
		})
	case VaultReady:
		// 幂等：重复执行不产生任何步骤
		return VaultReady, nil, nil
	case VaultForeign:
		return VaultForeign, nil, ErrInvalidTreasury
	}

	return state, steps, nil
}

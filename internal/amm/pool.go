package amm

import "github.com/gagliardetto/solana-go"

// PoolInitParams 建池时的费率与国库路由配置
type PoolInitParams struct {
	FeeNumerator     uint64
	FeeDenominator   uint64
	ProtocolTreasury solana.PublicKey
	ProtocolFeeBps   uint16
}

func (p PoolInitParams) validate() error {
	if p.FeeDenominator == 0 || p.FeeNumerator >= p.FeeDenominator {
		return ErrInvalidProtocolFee
	}
	if p.ProtocolFeeBps > ProtocolFeeDenominator {
		return ErrInvalidProtocolFee
	}
	return nil
}

// VaultSetup 一侧金库的准备输入：账户快照、资产 mint 及其派生签名者
type VaultSetup struct {
	View   AccountView
	Mint   solana.PublicKey
	Signer *DerivedSigner
}

// InitializePool 创建双代币池：校验费率配置，产出零值状态与两侧金库的准备计划。
// 金库准备可安全重入，部分失败后重建同一个池会从断点继续。
func InitializePool(
	params PoolInitParams,
	prov *VaultProvisioner,
	custodyProgram solana.PublicKey,
	authority solana.PublicKey,
	payer solana.PublicKey,
	vault0, vault1 VaultSetup,
) (*PoolState, []Step, error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}

	_, steps0, err := prov.Provision(vault0.View, custodyProgram, vault0.Mint, authority, payer, vault0.Signer)
	if err != nil {
		return nil, nil, err
	}
	_, steps1, err := prov.Provision(vault1.View, custodyProgram, vault1.Mint, authority, payer, vault1.Signer)
	if err != nil {
		return nil, nil, err
	}

	pool := &PoolState{
		FeeNumerator:     params.FeeNumerator,
		FeeDenominator:   params.FeeDenominator,
		ProtocolTreasury: params.ProtocolTreasury,
		ProtocolFeeBps:   params.ProtocolFeeBps,
	}

	return pool, append(steps0, steps1...), nil
}

// InitializeNativePool 创建原生池：只有代币一侧需要金库准备，
// 原生一侧直接记在持币账户上，储备从零起步由注入与校正维护。
func InitializeNativePool(
	params PoolInitParams,
	prov *VaultProvisioner,
	custodyProgram solana.PublicKey,
	authority solana.PublicKey,
	payer solana.PublicKey,
	nativePosition uint8,
	tokenVault VaultSetup,
) (*PoolState, []Step, error) {
	if err := params.validate(); err != nil {
		return nil, nil, err
	}
	if nativePosition > 1 {
		return nil, nil, ErrInvalidInput
	}

	_, steps, err := prov.Provision(tokenVault.View, custodyProgram, tokenVault.Mint, authority, payer, tokenVault.Signer)
	if err != nil {
		return nil, nil, err
	}

	pool := &PoolState{
		FeeNumerator:        params.FeeNumerator,
		FeeDenominator:      params.FeeDenominator,
		ProtocolTreasury:    params.ProtocolTreasury,
		ProtocolFeeBps:      params.ProtocolFeeBps,
		IsNativePool:        true,
		NativeAssetPosition: nativePosition,
	}

	return pool, steps, nil
}

// PauseNativePool 预留的管理员暂停钩子，暂未挂接任何权限体系，
// 当前不改变池状态。
func PauseNativePool(pool *PoolState) (*PoolState, error) {
	if !pool.IsNativePool {
		return nil, ErrNotNativePool
	}
	return pool, nil
}

// RecoverIdleNative 清退闲置原生余额：池内份额已全部销毁时，
// 将持币账户中超出储备底线的部分转回接收人。
// 仍有份额在外时拒绝，避免挪用在池流动性。
func RecoverIdleNative(
	pool *PoolState,
	custody AccountView,
	reservationFloor uint64,
	recipient solana.PublicKey,
	signer *DerivedSigner,
) ([]Step, *PoolState, error) {
	if !pool.IsNativePool {
		return nil, nil, ErrNotNativePool
	}
	if pool.TotalSharesMinted != 0 {
		return nil, nil, ErrInvalidInput
	}
	if custody.Lamports <= reservationFloor {
		return nil, nil, ErrInsufficientRentReserve
	}

	amount := custody.Lamports - reservationFloor

	updated := *pool
	updated.NativeReserve = 0

	steps := []Step{{
		Kind:    StepTransfer,
		Account: recipient,
		From:    custody.Address,
		Amount:  amount,
		Signer:  signer,
	}}

	return steps, &updated, nil
}

package amm

// 原生池首次注入锁定的最小流动性，用于抵御零成本份额膨胀攻击
const MinimumLiquidity = 1000

// Deposit 计算双代币池注入的份额增发量与两侧实际入池量。
// 第二侧请求量同时充当滑点保护：按池内比例推导出的需求超过它即拒绝。
// 返回的计划中份额总量已递增，但实际增发由外部托管服务执行。
func Deposit(
	pool *PoolState,
	vaultBalance0, vaultBalance1 uint64,
	userBalance0, userBalance1 uint64,
	amount0, amount1 uint64,
) (*DepositPlan, error) {
	if amount0 > userBalance0 || amount1 > userBalance1 {
		return nil, ErrNotEnoughBalance
	}

	deposit0 := amount0
	var deposit1, shareMint uint64

	if vaultBalance0 == 0 && vaultBalance1 == 0 {
		// 首次注入：取两侧之和的一半
		sum, err := CheckedAdd(amount0, amount1)
		if err != nil {
			return nil, err
		}
		shareMint = sum >> 1
		deposit1 = amount1
	} else {
		// 按当前兑换比例推导第二侧需求量（整数比例）
		exchange10, err := CheckedDiv(vaultBalance1, vaultBalance0)
		if err != nil {
			return nil, err
		}
		required1, err := CheckedMul(amount0, exchange10)
		if err != nil {
			return nil, err
		}
		if required1 > amount1 {
			return nil, ErrNotEnoughBalance
		}
		deposit1 = required1

		// 相对全池占比换算份额，128 位宽乘后再除
		shareMint, err = MulDiv(deposit1, pool.TotalSharesMinted, vaultBalance1)
		if err != nil {
			return nil, err
		}
	}

	if shareMint == 0 {
		return nil, ErrNoPoolMintOutput
	}

	newTotal, err := CheckedAdd(pool.TotalSharesMinted, shareMint)
	if err != nil {
		return nil, err
	}

	updated := *pool
	updated.TotalSharesMinted = newTotal

	return &DepositPlan{
		ShareMint:    shareMint,
		Deposit0:     deposit0,
		Deposit1:     deposit1,
		UpdatedState: &updated,
	}, nil
}

// Withdraw 计算份额销毁对应的两侧提取量。
// 向下取整，尾差留在池内，保证 LP 侧单调不亏。
func Withdraw(
	pool *PoolState,
	vaultBalance0, vaultBalance1 uint64,
	burnAmount uint64,
	holderShareBalance uint64,
) (*WithdrawPlan, error) {
	if burnAmount > holderShareBalance {
		return nil, ErrNotEnoughBalance
	}
	if burnAmount > pool.TotalSharesMinted {
		return nil, ErrBurnTooMuch
	}

	amount0, err := MulDiv(burnAmount, vaultBalance0, pool.TotalSharesMinted)
	if err != nil {
		return nil, err
	}
	amount1, err := MulDiv(burnAmount, vaultBalance1, pool.TotalSharesMinted)
	if err != nil {
		return nil, err
	}

	updated := *pool
	updated.TotalSharesMinted -= burnAmount

	return &WithdrawPlan{
		Amount0:      amount0,
		Amount1:      amount1,
		UpdatedState: &updated,
	}, nil
}

// DepositNative 原生池注入：原生侧余额来自状态中的 NativeReserve 而非代币记录。
// 首次注入使用几何平均数并锁定 MinimumLiquidity，结果必须达到调用方给出的下限。
func DepositNative(
	pool *PoolState,
	tokenVaultBalance uint64,
	nativeAmount, tokenAmount uint64,
	minShares uint64,
) (*DepositPlan, error) {
	if !pool.IsNativePool {
		return nil, ErrNotNativePool
	}
	if nativeAmount == 0 || tokenAmount == 0 {
		return nil, ErrInvalidInput
	}

	var shareMint uint64
	if pool.TotalSharesMinted == 0 {
		root := IsqrtProduct(nativeAmount, tokenAmount)
		var err error
		shareMint, err = CheckedSub(root, MinimumLiquidity)
		if err != nil {
			return nil, ErrInsufficientLiquidity
		}
	} else {
		fromNative, err := MulDiv(nativeAmount, pool.TotalSharesMinted, pool.NativeReserve)
		if err != nil {
			return nil, err
		}
		fromToken, err := MulDiv(tokenAmount, pool.TotalSharesMinted, tokenVaultBalance)
		if err != nil {
			return nil, err
		}
		// 取较小值以维持池内比例
		shareMint = fromNative
		if fromToken < shareMint {
			shareMint = fromToken
		}
	}

	if shareMint < minShares {
		return nil, ErrSlippageExceeded
	}

	newReserve, err := CheckedAdd(pool.NativeReserve, nativeAmount)
	if err != nil {
		return nil, err
	}
	newTotal, err := CheckedAdd(pool.TotalSharesMinted, shareMint)
	if err != nil {
		return nil, err
	}

	updated := *pool
	updated.NativeReserve = newReserve
	updated.TotalSharesMinted = newTotal

	return &DepositPlan{
		ShareMint:    shareMint,
		Deposit0:     nativeAmount,
		Deposit1:     tokenAmount,
		UpdatedState: &updated,
	}, nil
}

// WithdrawNative 原生池按份额比例提取，原生侧从 NativeReserve 扣减
func WithdrawNative(
	pool *PoolState,
	tokenVaultBalance uint64,
	burnAmount uint64,
	holderShareBalance uint64,
) (*WithdrawPlan, error) {
	if !pool.IsNativePool {
		return nil, ErrNotNativePool
	}
	if burnAmount == 0 {
		return nil, ErrInvalidInput
	}
	if pool.TotalSharesMinted == 0 {
		return nil, ErrInsufficientLiquidity
	}
	if burnAmount > holderShareBalance {
		return nil, ErrNotEnoughBalance
	}
	if burnAmount > pool.TotalSharesMinted {
		return nil, ErrBurnTooMuch
	}

	nativeOut, err := MulDiv(burnAmount, pool.NativeReserve, pool.TotalSharesMinted)
	if err != nil {
		return nil, err
	}
	tokenOut, err := MulDiv(burnAmount, tokenVaultBalance, pool.TotalSharesMinted)
	if err != nil {
		return nil, err
	}

	newReserve, err := CheckedSub(pool.NativeReserve, nativeOut)
	if err != nil {
		return nil, err
	}

	updated := *pool
	updated.NativeReserve = newReserve
	updated.TotalSharesMinted -= burnAmount

	return &WithdrawPlan{
		Amount0:      nativeOut,
		Amount1:      tokenOut,
		UpdatedState: &updated,
	}, nil
}

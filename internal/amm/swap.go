package amm

// ProtocolFeeDenominator 协议费以万分比计
const ProtocolFeeDenominator = 10000

// NativeLeg 标记本笔交易中哪一侧以原生资产计价
type NativeLeg uint8

const (
	NativeLegNone NativeLeg = iota
	NativeLegIn
	NativeLegOut
)

func (l NativeLeg) String() string {
	switch l {
	case NativeLegIn:
		return "in"
	case NativeLegOut:
		return "out"
	default:
		return "none"
	}
}

// SwapRequest 单笔兑换的输入快照。
// 两侧储备必须取自同一逻辑时刻，费率计算永远使用转账前的储备。
type SwapRequest struct {
	ReserveIn    uint64
	ReserveOut   uint64
	AmountIn     uint64
	MinAmountOut uint64
	NativeLeg    NativeLeg

	// 非原生托管模型下国库封装代币记录是否有效（归属正确且非空）
	TreasuryAccountValid bool

	// 原生托管模型下持币账户当前余额与其存储保证金下限
	CustodyBalance   uint64
	ReservationFloor uint64
}

// Swap 按恒定乘积公式计算兑换输出并拆分 LP 费与协议费。
// LP 费直接留在池内（从入金侧折价体现），协议费仅在原生资产侧计收：
// 原生作为输入时从入池金额中扣除，原生作为输出时从交易者所得中扣除。
// 非原生托管模型下若国库记录无效则静默豁免协议费，交易照常完成。
func Swap(pool *PoolState, req *SwapRequest) (*SwapPlan, error) {
	if req.ReserveIn == 0 || req.ReserveOut == 0 {
		return nil, ErrInsufficientLiquidity
	}
	if req.AmountIn == 0 {
		return nil, ErrInvalidInput
	}
	if pool.FeeDenominator == 0 || pool.FeeNumerator > pool.FeeDenominator {
		return nil, ErrInvalidProtocolFee
	}

	// 入金先折掉 LP 费，再走恒定乘积
	afterLpFee, err := MulDiv(req.AmountIn, pool.FeeDenominator-pool.FeeNumerator, pool.FeeDenominator)
	if err != nil {
		return nil, err
	}
	newReserveIn, err := CheckedAdd(req.ReserveIn, afterLpFee)
	if err != nil {
		return nil, err
	}
	grossOut, err := MulDiv(afterLpFee, req.ReserveOut, newReserveIn)
	if err != nil {
		return nil, err
	}

	plan := &SwapPlan{
		AmountOut:     grossOut,
		AmountToVault: req.AmountIn,
	}

	// 协议费只对原生资产一侧计收
	if req.NativeLeg != NativeLegNone && pool.ProtocolFeeBps > 0 && pool.HasTreasury() {
		if pool.ProtocolFeeBps > ProtocolFeeDenominator {
			return nil, ErrInvalidProtocolFee
		}
		nativeAmount := req.AmountIn
		if req.NativeLeg == NativeLegOut {
			nativeAmount = grossOut
		}
		fee, err := MulDiv(nativeAmount, uint64(pool.ProtocolFeeBps), ProtocolFeeDenominator)
		if err != nil {
			return nil, err
		}
		if !pool.IsNativePool && !req.TreasuryAccountValid {
			// 国库封装代币记录缺失或无效，豁免而非报错
			plan.FeeWaived = true
			fee = 0
		}
		plan.ProtocolFeeNative = fee
		switch req.NativeLeg {
		case NativeLegIn:
			plan.AmountToVault = req.AmountIn - fee
		case NativeLegOut:
			plan.AmountOut = grossOut - fee
		}
	}

	// 滑点校验在协议费扣减之后
	if plan.AmountOut < req.MinAmountOut {
		return nil, ErrNotEnoughOut
	}

	// 原生托管模型下持币账户付出后不得跌破存储保证金
	if pool.IsNativePool && req.NativeLeg == NativeLegOut {
		if req.CustodyBalance < grossOut || req.CustodyBalance-grossOut < req.ReservationFloor {
			return nil, ErrInsufficientRentReserve
		}
	}

	updated := *pool
	if pool.IsNativePool {
		switch req.NativeLeg {
		case NativeLegIn:
			newReserve, err := CheckedAdd(pool.NativeReserve, plan.AmountToVault)
			if err != nil {
				return nil, err
			}
			updated.NativeReserve = newReserve
		case NativeLegOut:
			newReserve, err := CheckedSub(pool.NativeReserve, grossOut)
			if err != nil {
				return nil, err
			}
			updated.NativeReserve = newReserve
		}
	}
	plan.UpdatedState = &updated

	return plan, nil
}

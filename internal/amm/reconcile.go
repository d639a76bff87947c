package amm

// DriftReport 记录一次储备校正：旧值、新值与偏移量。
// 偏移只上报不拒绝，校正本身无条件覆写。
type DriftReport struct {
	OldReserve uint64
	NewReserve uint64
	Drift      int64
}

func (r *DriftReport) HasDrift() bool {
	return r.Drift != 0
}

// Reconcile 以持币账户实际余额重算原生储备：余额减去存储保证金即为可交易储备。
// 余额不足以覆盖保证金时报错，其余情况一律覆写并返回偏移报告。
func Reconcile(pool *PoolState, custodyBalance, reservationFloor uint64) (*DriftReport, *PoolState, error) {
	if !pool.IsNativePool {
		return nil, nil, ErrNotNativePool
	}
	if custodyBalance < reservationFloor {
		return nil, nil, ErrInsufficientRentReserve
	}

	newReserve := custodyBalance - reservationFloor

	report := &DriftReport{
		OldReserve: pool.NativeReserve,
		NewReserve: newReserve,
		Drift:      int64(pool.NativeReserve) - int64(newReserve),
	}

	updated := *pool
	updated.NativeReserve = newReserve

	return report, &updated, nil
}

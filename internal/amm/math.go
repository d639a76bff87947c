package amm

import (
	"math/big"
	"math/bits"
)

// CheckedAdd 带溢出检查的 uint64 加法
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// CheckedSub 带下溢检查的 uint64 减法
func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

// CheckedMul 带溢出检查的 uint64 乘法
func CheckedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

// CheckedDiv 带除零检查的 uint64 除法
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrMathOverflow
	}
	return a / b, nil
}

// MulDiv 计算 a * b / d：先在 128 位宽度上乘，再除，最后收窄回 uint64。
// 余数向下取整。结果超出 uint64 或 d == 0 时返回 ErrMathOverflow。
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrMathOverflow
	}
	hi, lo := bits.Mul64(a, b)
	// bits.Div64 要求 hi < d，否则商超出 64 位
	if hi >= d {
		return 0, ErrMathOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}

// IsqrtProduct 计算 floor(sqrt(a * b))，乘积在 128 位宽度上完成。
// IsqrtProduct(0, x) = 0。仅用于原生池的首次注入。
func IsqrtProduct(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	n := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	// sqrt(u128) 必定落在 uint64 范围内
	return n.Sqrt(n).Uint64()
}

// Isqrt 牛顿法整数平方根，Isqrt(0) = 0
func Isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := x/2 + 1
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

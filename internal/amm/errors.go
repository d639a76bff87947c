package amm

import "errors"

// 引擎错误码，与链上程序保持一一对应
var (
	ErrNotEnoughBalance        = errors.New("src balance < lp deposit amount")
	ErrNoPoolMintOutput        = errors.New("pool mint amount < 0 on lp deposit")
	ErrBurnTooMuch             = errors.New("trying to burn too much")
	ErrNotEnoughOut            = errors.New("not enough out")
	ErrInvalidProtocolFee      = errors.New("invalid protocol fee: must be between 0 and 10000 basis points")
	ErrInvalidTreasury         = errors.New("invalid treasury account")
	ErrNotNativePool           = errors.New("this operation is only for native pools")
	ErrInvalidInput            = errors.New("invalid input parameters")
	ErrInsufficientLiquidity   = errors.New("insufficient liquidity in pool")
	ErrMathOverflow            = errors.New("math operation overflow")
	ErrSlippageExceeded        = errors.New("slippage tolerance exceeded")
	ErrInsufficientRentReserve = errors.New("insufficient rent reserve - would make pool rent-ineligible")
	ErrInvalidAccountData      = errors.New("invalid account data - failed to deserialize")
)

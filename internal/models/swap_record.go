package models

import (
	"time"
)

type SwapRecord struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	PoolAddress     string    `gorm:"size:100;index;not null" json:"pool_address"`
	Direction       string    `gorm:"size:10;not null" json:"direction"` // 0to1 或 1to0
	AmountIn        uint64    `gorm:"not null" json:"amount_in"`
	AmountOut       uint64    `gorm:"not null" json:"amount_out"`
	AmountToVault   uint64    `gorm:"not null" json:"amount_to_vault"`
	ProtocolFee     uint64    `gorm:"default:0" json:"protocol_fee"`
	FeeWaived       bool      `gorm:"default:false" json:"fee_waived"`
	ReserveInBefore uint64    `json:"reserve_in_before"`
	ReserveOutAfter uint64    `json:"reserve_out_after"`
	Signature       string    `gorm:"size:120" json:"signature"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (SwapRecord) TableName() string {
	return "swap_record"
}

package models

import (
	"time"
)

type PoolRecord struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	PoolAddress         string    `gorm:"size:100;uniqueIndex;not null" json:"pool_address"`
	Authority           string    `gorm:"size:100;not null" json:"authority"`
	Mint0               string    `gorm:"size:100;not null" json:"mint0"`
	Mint1               string    `gorm:"size:100;not null" json:"mint1"`
	Vault0              string    `gorm:"size:100" json:"vault0"`
	Vault1              string    `gorm:"size:100" json:"vault1"`
	ShareMint           string    `gorm:"size:100" json:"share_mint"`
	FeeNumerator        uint64    `gorm:"not null" json:"fee_numerator"`
	FeeDenominator      uint64    `gorm:"not null" json:"fee_denominator"`
	TreasuryAddress     string    `gorm:"size:100" json:"treasury_address"`
	ProtocolFeeBps      uint16    `gorm:"default:0" json:"protocol_fee_bps"`
	IsNativePool        bool      `gorm:"default:false" json:"is_native_pool"`
	NativeAssetPosition uint8     `gorm:"default:0" json:"native_asset_position"`
	NativeReserve       uint64    `gorm:"default:0" json:"native_reserve"`
	TotalShares         uint64    `gorm:"default:0" json:"total_shares"`
	Status              string    `gorm:"size:20;default:active" json:"status"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PoolRecord) TableName() string {
	return "pool_record"
}

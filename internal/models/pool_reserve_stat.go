package models

import (
	"time"
)

// PoolReserveStat 定时抓取的池储备快照，用于偏移趋势观察
type PoolReserveStat struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	PoolAddress string    `gorm:"size:100;index;not null" json:"pool_address"`
	Reserve0    uint64    `gorm:"not null" json:"reserve0"`
	Reserve1    uint64    `gorm:"not null" json:"reserve1"`
	TotalShares uint64    `gorm:"not null" json:"total_shares"`
	RecordTime  time.Time `gorm:"index;not null" json:"record_time"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PoolReserveStat) TableName() string {
	return "pool_reserve_stat"
}

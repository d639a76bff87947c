package models

import (
	"time"
)

// DriftReport 一次储备校正的留痕记录
type DriftReport struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	PoolAddress      string    `gorm:"size:100;index;not null" json:"pool_address"`
	OldReserve       uint64    `gorm:"not null" json:"old_reserve"`
	NewReserve       uint64    `gorm:"not null" json:"new_reserve"`
	Drift            int64     `gorm:"not null" json:"drift"`
	CustodyBalance   uint64    `gorm:"not null" json:"custody_balance"`
	ReservationFloor uint64    `gorm:"not null" json:"reservation_floor"`
	Source           string    `gorm:"size:20" json:"source"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (DriftReport) TableName() string {
	return "drift_report"
}

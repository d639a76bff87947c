package models

import (
	"time"
)

// VaultProvisionLog 金库准备的执行留痕，StateBefore 记录重入时的起点
type VaultProvisionLog struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	PoolAddress  string    `gorm:"size:100;index;not null" json:"pool_address"`
	VaultAddress string    `gorm:"size:100;not null" json:"vault_address"`
	StateBefore  string    `gorm:"size:20;not null" json:"state_before"`
	StepCount    int       `gorm:"not null" json:"step_count"`
	Succeeded    bool      `gorm:"default:false" json:"succeeded"`
	Error        string    `gorm:"size:255" json:"error"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (VaultProvisionLog) TableName() string {
	return "vault_provision_log"
}

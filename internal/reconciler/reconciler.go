package reconciler

import (
	"context"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ammcontrol/internal/amm"
	"ammcontrol/internal/models"
	dbconfig "ammcontrol/pkg/config"
	"ammcontrol/pkg/solana"
)

// 队列名称
const (
	QueueReconcile = "pool_reconcile"
	QueueDrift     = "pool_drift"
)

// ReconcileMessage 一次校正请求，Source 标记触发来源（api / cron / monitor）
type ReconcileMessage struct {
	PoolAddress string `json:"pool_address"`
	Source      string `json:"source"`
}

// DriftMessage 校正产生偏移时推送到下游的通知
type DriftMessage struct {
	PoolAddress string    `json:"pool_address"`
	OldReserve  uint64    `json:"old_reserve"`
	NewReserve  uint64    `json:"new_reserve"`
	Drift       int64     `json:"drift"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Reconciler 读取链上托管余额并校正数据库中的原生储备
type Reconciler struct {
	db     *gorm.DB
	client *rpc.Client
}

func NewReconciler(db *gorm.DB, client *rpc.Client) *Reconciler {
	return &Reconciler{db: db, client: client}
}

// ReconcilePool 对单个原生池执行一次储备校正。
// 托管账户余额与租金底线取自同一时刻的链上读取，
// 校正结果落库并返回偏移报告。
func (r *Reconciler) ReconcilePool(ctx context.Context, record *models.PoolRecord, source string) (*amm.DriftReport, error) {
	if !record.IsNativePool {
		return nil, amm.ErrNotNativePool
	}

	custodyAddress := record.Vault0
	if record.NativeAssetPosition == 1 {
		custodyAddress = record.Vault1
	}
	custody, err := solanago.PublicKeyFromBase58(custodyAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid custody address %s: %w", custodyAddress, err)
	}

	view, err := solana.LoadAccountView(ctx, r.client, custody)
	if err != nil {
		return nil, err
	}
	floor, err := solana.GetRentFloor(ctx, r.client, view.DataLen)
	if err != nil {
		return nil, err
	}

	pool := &amm.PoolState{
		TotalSharesMinted: record.TotalShares,
		IsNativePool:      true,
		NativeReserve:     record.NativeReserve,
	}

	report, updated, err := amm.Reconcile(pool, view.Lamports, floor)
	if err != nil {
		log.Errorf("> 池 %s 储备校正失败: %v", record.PoolAddress, err)
		return nil, err
	}

	record.NativeReserve = updated.NativeReserve
	if err := r.db.Model(record).Update("native_reserve", updated.NativeReserve).Error; err != nil {
		return nil, err
	}

	entry := models.DriftReport{
		PoolAddress:      record.PoolAddress,
		OldReserve:       report.OldReserve,
		NewReserve:       report.NewReserve,
		Drift:            report.Drift,
		CustodyBalance:   view.Lamports,
		ReservationFloor: floor,
		Source:           source,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return nil, err
	}

	if report.HasDrift() {
		log.Warnf("> 池 %s 储备偏移 %d (旧 %d, 新 %d)", record.PoolAddress, report.Drift, report.OldReserve, report.NewReserve)
		r.publishDrift(record.PoolAddress, report)
	} else {
		log.Infof("> 池 %s 储备校正完成，无偏移", record.PoolAddress)
	}

	return report, nil
}

// HandleMessage 处理来自 pool_reconcile 队列的一条消息
func (r *Reconciler) HandleMessage(ctx context.Context, msg ReconcileMessage) error {
	var record models.PoolRecord
	if err := r.db.Where("pool_address = ?", msg.PoolAddress).First(&record).Error; err != nil {
		return fmt.Errorf("pool %s not found: %w", msg.PoolAddress, err)
	}
	_, err := r.ReconcilePool(ctx, &record, msg.Source)
	return err
}

func (r *Reconciler) publishDrift(poolAddress string, report *amm.DriftReport) {
	publisher, err := dbconfig.NewPublisher()
	if err != nil {
		log.Errorf("> 创建偏移通知 publisher 失败: %v", err)
		return
	}
	defer publisher.Close()

	err = publisher.Publish(QueueDrift, DriftMessage{
		PoolAddress: poolAddress,
		OldReserve:  report.OldReserve,
		NewReserve:  report.NewReserve,
		Drift:       report.Drift,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		log.Errorf("> 推送偏移通知失败: %v", err)
	}
}

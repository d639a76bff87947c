package main

import (
	"context"
	"os"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"

	"ammcontrol/internal/models"
	"ammcontrol/internal/reconciler"
	dbconfig "ammcontrol/pkg/config"
	"ammcontrol/pkg/solana"
)

// getZeroSecondTime 获取当前时间的零秒时间戳
func getZeroSecondTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

// EnqueueReconcileTasks 为所有活跃原生池下发一次储备校正
func EnqueueReconcileTasks() error {
	logger.Info("> 开始下发储备校正任务")

	var pools []models.PoolRecord
	if err := dbconfig.DB.Where("is_native_pool = ? AND status = ?", true, "active").Find(&pools).Error; err != nil {
		logger.Errorf("> 查询原生池失败: %v", err)
		return err
	}

	logger.Infof("> 共找到 %d 个原生池", len(pools))

	publisher, err := dbconfig.NewPublisher()
	if err != nil {
		logger.Errorf("> 创建 publisher 失败: %v", err)
		return err
	}
	defer publisher.Close()

	for _, pool := range pools {
		msg := reconciler.ReconcileMessage{
			PoolAddress: pool.PoolAddress,
			Source:      "cron",
		}
		if err := publisher.Publish(reconciler.QueueReconcile, msg); err != nil {
			logger.Errorf("> 池 %s 下发校正任务失败: %v", pool.PoolAddress, err)
			continue
		}
	}

	logger.Info("> 储备校正任务下发完成")
	return nil
}

// RecordReserveStats 抓取所有活跃池的储备快照
func RecordReserveStats(client *rpc.Client) error {
	logger.Info("> 开始记录池储备快照")

	var pools []models.PoolRecord
	if err := dbconfig.DB.Where("status = ?", "active").Find(&pools).Error; err != nil {
		logger.Errorf("> 查询池失败: %v", err)
		return err
	}

	now := getZeroSecondTime(time.Now())
	for _, pool := range pools {
		poolState, err := solanago.PublicKeyFromBase58(pool.PoolAddress)
		if err != nil {
			logger.Errorf("> 解析池地址 %s 失败: %v", pool.PoolAddress, err)
			continue
		}
		vault0, err := solanago.PublicKeyFromBase58(pool.Vault0)
		if err != nil {
			logger.Errorf("> 解析池 %s 的 vault0 失败: %v", pool.PoolAddress, err)
			continue
		}
		vault1, err := solanago.PublicKeyFromBase58(pool.Vault1)
		if err != nil {
			logger.Errorf("> 解析池 %s 的 vault1 失败: %v", pool.PoolAddress, err)
			continue
		}

		snap, err := solana.LoadPoolSnapshot(context.Background(), client, poolState, vault0, vault1)
		if err != nil {
			logger.Errorf("> 读取池 %s 快照失败: %v", pool.PoolAddress, err)
			continue
		}

		stat := models.PoolReserveStat{
			PoolAddress: pool.PoolAddress,
			Reserve0:    snap.Vault0Balance,
			Reserve1:    snap.Vault1Balance,
			TotalShares: snap.State.TotalSharesMinted,
			RecordTime:  now,
		}
		if err := dbconfig.DB.Create(&stat).Error; err != nil {
			logger.Errorf("> 保存池 %s 快照失败: %v", pool.PoolAddress, err)
			continue
		}

		// 数据库侧的份额计数跟随链上状态
		updates := map[string]interface{}{
			"total_shares": snap.State.TotalSharesMinted,
		}
		if snap.State.IsNativePool {
			updates["native_reserve"] = snap.State.NativeReserve
		}
		if err := dbconfig.DB.Model(&models.PoolRecord{}).
			Where("pool_address = ?", pool.PoolAddress).
			Updates(updates).Error; err != nil {
			logger.Errorf("> 更新池 %s 记录失败: %v", pool.PoolAddress, err)
		}
	}

	logger.Info("> 池储备快照记录完成")
	return nil
}

func main() {
	// 配置日志输出
	file, err := os.OpenFile("reconcile_task.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logger.SetOutput(file)
	} else {
		logger.Warn("无法打开日志文件，日志将输出到标准输出")
	}

	// 配置日志格式
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)
	logger.Info("> 开始初始化程序...")

	// 初始化数据库连接
	dbconfig.InitDB()
	logger.Info("> 数据库连接初始化完成")

	// 初始化消息队列
	dbconfig.InitRabbitMQ()
	defer dbconfig.RabbitMQ.Close()

	rpcEndpoint := os.Getenv("RPC_ENDPOINT")
	if rpcEndpoint == "" {
		rpcEndpoint = rpc.MainNetBeta_RPC
	}
	client := rpc.New(rpcEndpoint)

	// 创建定时任务
	c := cron.New(cron.WithSeconds())

	// 每5分钟下发一次储备校正
	_, err = c.AddFunc("0 */5 * * * *", func() {
		if err := EnqueueReconcileTasks(); err != nil {
			logger.Errorf("> 下发储备校正任务失败: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> 添加定时任务失败: %v", err)
	}

	// 每15分钟记录一次储备快照
	_, err = c.AddFunc("0 */15 * * * *", func() {
		if err := RecordReserveStats(client); err != nil {
			logger.Errorf("> 记录池储备快照失败: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("> 添加定时任务失败: %v", err)
	}

	logger.Info("> 定时任务已启动")

	// 启动定时任务
	c.Start()

	// 保持程序运行
	select {}
}

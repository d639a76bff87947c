package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go/rpc"
	logrus "github.com/sirupsen/logrus"

	"ammcontrol/internal/models"
	"ammcontrol/internal/reconciler"
	"ammcontrol/pkg/config"
	"ammcontrol/pkg/solana/monitor"
)

const (
	maxErrorCount = 3 // Maximum consecutive errors before dropping a pool
)

var (
	// errorCounts tracks error count per pool address
	errorCounts   = make(map[string]int)
	errorCountsMu sync.RWMutex
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	rpcEndpoint := os.Getenv("RPC_ENDPOINT")
	if rpcEndpoint == "" {
		rpcEndpoint = rpc.MainNetBeta_RPC
	}
	client := rpc.New(rpcEndpoint)

	rec := reconciler.NewReconciler(config.DB, client)

	// Watch native-pool custody accounts and reconcile on every balance change
	startCustodyMonitors()

	// Create consumer for the reconcile queue
	msgConsumer, err := config.NewConsumer(reconciler.QueueReconcile)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Reserve reconcile worker started, waiting for messages...")

	// Start consuming messages
	err = msgConsumer.Consume(func(msg []byte) error {
		var reconcileMsg reconciler.ReconcileMessage
		if err := json.Unmarshal(msg, &reconcileMsg); err != nil {
			logrus.Errorf("Failed to unmarshal message: %v", err)
			return err
		}

		logrus.Infof("Received reconcile request: %+v", reconcileMsg)

		if err := rec.HandleMessage(context.Background(), reconcileMsg); err != nil {
			logrus.Errorf("Failed to reconcile pool %s: %v", reconcileMsg.PoolAddress, err)

			count := incrementErrorCount(reconcileMsg.PoolAddress)
			if count >= maxErrorCount {
				// Drop the message instead of requeueing forever
				logrus.Warnf("Skipping pool %s due to excessive errors", reconcileMsg.PoolAddress)
				resetErrorCount(reconcileMsg.PoolAddress)
				return nil
			}
			return err
		}

		resetErrorCount(reconcileMsg.PoolAddress)
		return nil
	})

	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}

// startCustodyMonitors subscribes to custody accounts of all active native pools.
// Balance changes are funneled into the same reconcile queue as cron and api triggers.
func startCustodyMonitors() {
	manager, err := monitor.NewCustodyMonitorManager()
	if err != nil {
		logrus.Errorf("Failed to create custody monitor manager: %v", err)
		return
	}

	var pools []models.PoolRecord
	if err := config.DB.Where("is_native_pool = ? AND status = ?", true, "active").Find(&pools).Error; err != nil {
		logrus.Errorf("Failed to load native pools for monitoring: %v", err)
		return
	}

	for _, pool := range pools {
		custody := pool.Vault0
		if pool.NativeAssetPosition == 1 {
			custody = pool.Vault1
		}
		poolAddress := pool.PoolAddress
		err := manager.StartMonitoring(custody, poolAddress, func(address string, lamports uint64) {
			publisher, err := config.NewPublisher()
			if err != nil {
				logrus.Errorf("Failed to create publisher for %s: %v", address, err)
				return
			}
			defer publisher.Close()

			msg := reconciler.ReconcileMessage{PoolAddress: poolAddress, Source: "monitor"}
			if err := publisher.Publish(reconciler.QueueReconcile, msg); err != nil {
				logrus.Errorf("Failed to enqueue reconcile for %s: %v", poolAddress, err)
			}
		})
		if err != nil {
			logrus.Errorf("Failed to start monitoring custody %s: %v", custody, err)
		}
	}
}

// incrementErrorCount increments the error count for a pool address
func incrementErrorCount(address string) int {
	errorCountsMu.Lock()
	defer errorCountsMu.Unlock()

	errorCounts[address]++
	count := errorCounts[address]
	logrus.Warnf("Error count for pool %s: %d/%d", address, count, maxErrorCount)
	return count
}

// resetErrorCount resets the error count for a pool address
func resetErrorCount(address string) {
	errorCountsMu.Lock()
	defer errorCountsMu.Unlock()

	delete(errorCounts, address)
}

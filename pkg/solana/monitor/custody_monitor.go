package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Connection states
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"

	// Reconnect settings
	maxReconnectAttempts = 10
	reconnectDelay       = 5 * time.Second

	// Error threshold
	maxErrorCount = 6 // Maximum consecutive errors before stopping monitoring
)

// BalanceCallback is invoked whenever a watched custody account's balance changes
type BalanceCallback func(address string, lamports uint64)

// CustodyConnection represents a WebSocket subscription for one custody account
type CustodyConnection struct {
	Address      string
	PoolAddress  string
	Conn         *websocket.Conn
	Status       string
	LastMessage  time.Time
	LastLamports uint64
	ReconnectCh  chan bool
	StopCh       chan bool
	Callback     BalanceCallback
	mu           sync.RWMutex
	wsEndpoint   string
	errorCount   int
}

// CustodyMonitorManager manages WebSocket subscriptions for custody accounts
type CustodyMonitorManager struct {
	connections sync.Map // map[string]*CustodyConnection
	wsEndpoint  string
}

// NewCustodyMonitorManager creates a new custody monitor manager
func NewCustodyMonitorManager() (*CustodyMonitorManager, error) {
	wsEndpoint := os.Getenv("RPC_WSS_ENDPOINT")
	if wsEndpoint == "" {
		wsEndpoint = "wss://api.mainnet-beta.solana.com"
	}

	return &CustodyMonitorManager{
		wsEndpoint: wsEndpoint,
	}, nil
}

// StartMonitoring starts watching a custody account's balance
func (m *CustodyMonitorManager) StartMonitoring(custodyAddress, poolAddress string, callback BalanceCallback) error {
	// Check if connection already exists
	if _, exists := m.connections.Load(custodyAddress); exists {
		log.WithFields(log.Fields{
			"custody_address": custodyAddress,
		}).Info("Connection already exists, skipping")
		return nil
	}

	if _, err := solana.PublicKeyFromBase58(custodyAddress); err != nil {
		return fmt.Errorf("invalid custody address %s: %w", custodyAddress, err)
	}

	conn := &CustodyConnection{
		Address:     custodyAddress,
		PoolAddress: poolAddress,
		Status:      StateDisconnected,
		ReconnectCh: make(chan bool, 1),
		StopCh:      make(chan bool, 1),
		Callback:    callback,
		wsEndpoint:  m.wsEndpoint,
	}

	m.connections.Store(custodyAddress, conn)

	// Start connection in goroutine
	go m.connectAndMonitor(conn)

	log.WithFields(log.Fields{
		"custody_address": custodyAddress,
		"pool_address":    poolAddress,
	}).Info("托管账户监控已创建")
	return nil
}

// StopMonitoring stops watching a custody account
func (m *CustodyMonitorManager) StopMonitoring(custodyAddress string) error {
	value, exists := m.connections.Load(custodyAddress)
	if !exists {
		return fmt.Errorf("connection for address %s not found", custodyAddress)
	}

	conn := value.(*CustodyConnection)
	close(conn.StopCh)
	m.connections.Delete(custodyAddress)
	log.WithFields(log.Fields{
		"custody_address": custodyAddress,
	}).Info("托管账户监控已停止")

	return nil
}

// incrementErrorCount increments the error count and checks if threshold is reached
func (m *CustodyMonitorManager) incrementErrorCount(conn *CustodyConnection) bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.errorCount++
	log.WithFields(log.Fields{
		"custody_address": conn.Address,
		"error_count":     conn.errorCount,
		"max_errors":      maxErrorCount,
	}).Warn("Error count increased")

	return conn.errorCount >= maxErrorCount
}

// resetErrorCount resets the error count (called on successful operations)
func (m *CustodyMonitorManager) resetErrorCount(conn *CustodyConnection) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	if conn.errorCount > 0 {
		conn.errorCount = 0
	}
}

// connectAndMonitor handles the WebSocket connection and monitoring
func (m *CustodyMonitorManager) connectAndMonitor(conn *CustodyConnection) {
	reconnectAttempts := 0

	for {
		select {
		case <-conn.StopCh:
			log.WithFields(log.Fields{
				"custody_address": conn.Address,
			}).Info("Stopping monitoring")
			if conn.Conn != nil {
				conn.Conn.Close()
			}
			return
		default:
			conn.mu.Lock()
			conn.Status = StateConnecting
			conn.mu.Unlock()

			c, _, err := websocket.DefaultDialer.Dial(conn.wsEndpoint, nil)
			if err != nil {
				log.WithFields(log.Fields{
					"custody_address": conn.Address,
					"error":           err.Error(),
				}).Error("Failed to connect to WebSocket")
				reconnectAttempts++

				if m.incrementErrorCount(conn) || reconnectAttempts >= maxReconnectAttempts {
					log.WithFields(log.Fields{
						"custody_address": conn.Address,
					}).Error("Stopping monitoring due to excessive errors")
					m.StopMonitoring(conn.Address)
					return
				}
				time.Sleep(reconnectDelay)
				continue
			}

			conn.mu.Lock()
			conn.Conn = c
			conn.Status = StateConnected
			conn.mu.Unlock()

			reconnectAttempts = 0
			m.resetErrorCount(conn)
			log.WithFields(log.Fields{
				"custody_address": conn.Address,
			}).Info("Connected to WebSocket")

			subscribeMsg := map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      1,
				"method":  "accountSubscribe",
				"params": []interface{}{
					conn.Address,
					map[string]interface{}{
						"encoding":   "base64",
						"commitment": "finalized",
					},
				},
			}

			if err := c.WriteJSON(subscribeMsg); err != nil {
				log.WithFields(log.Fields{
					"custody_address": conn.Address,
					"error":           err.Error(),
				}).Error("Failed to send subscription message")
				c.Close()
				if m.incrementErrorCount(conn) {
					m.StopMonitoring(conn.Address)
					return
				}
				time.Sleep(reconnectDelay)
				continue
			}

			log.WithFields(log.Fields{
				"custody_address": conn.Address,
			}).Info("开始监控托管余额变化...")

			// Start reading messages
			go m.readMessages(conn)

			// Wait for reconnect signal or stop signal
			select {
			case <-conn.ReconnectCh:
				log.WithFields(log.Fields{
					"custody_address": conn.Address,
				}).Info("Reconnect requested")
				c.Close()
				time.Sleep(reconnectDelay)
			case <-conn.StopCh:
				c.Close()
				return
			}
		}
	}
}

// accountNotification is the shape of an accountSubscribe push message
type accountNotification struct {
	Method string `json:"method"`
	Params struct {
		Result struct {
			Value struct {
				Lamports uint64 `json:"lamports"`
			} `json:"value"`
		} `json:"result"`
	} `json:"params"`
}

// readMessages reads messages from the WebSocket connection
func (m *CustodyMonitorManager) readMessages(conn *CustodyConnection) {
	defer func() {
		conn.mu.Lock()
		if conn.Conn != nil {
			conn.Conn.Close()
		}
		conn.Status = StateDisconnected
		conn.mu.Unlock()

		// Trigger reconnect
		select {
		case conn.ReconnectCh <- true:
		default:
		}
	}()

	for {
		conn.mu.RLock()
		c := conn.Conn
		conn.mu.RUnlock()

		if c == nil {
			return
		}

		_, message, err := c.ReadMessage()
		if err != nil {
			log.WithFields(log.Fields{
				"custody_address": conn.Address,
				"error":           err.Error(),
			}).Error("Error reading message")
			if m.incrementErrorCount(conn) {
				m.StopMonitoring(conn.Address)
			}
			return
		}

		m.resetErrorCount(conn)

		conn.mu.Lock()
		conn.LastMessage = time.Now()
		conn.mu.Unlock()

		var notification accountNotification
		if err := json.Unmarshal(message, &notification); err != nil {
			log.WithFields(log.Fields{
				"custody_address": conn.Address,
				"error":           err.Error(),
			}).Error("Failed to unmarshal message")
			continue
		}
		if notification.Method != "accountNotification" {
			// 订阅确认等控制消息
			continue
		}

		lamports := notification.Params.Result.Value.Lamports

		conn.mu.Lock()
		changed := lamports != conn.LastLamports
		conn.LastLamports = lamports
		conn.mu.Unlock()

		if changed && conn.Callback != nil {
			log.WithFields(log.Fields{
				"custody_address": conn.Address,
				"lamports":        lamports,
			}).Info("托管余额变化")
			conn.Callback(conn.Address, lamports)
		}
	}
}

package solana

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"

	"ammcontrol/internal/amm"
)

// SPL 余额记录中 amount 字段的偏移：mint(32) + owner(32)
const splAmountOffset = 64

// SPL 余额记录的存储字节数
const SplAccountSpace = 165

// PoolSnapshot 一次池读取的完整快照：状态记录加两侧托管余额，
// 取自同一批量查询，保证两条腿读数一致。
type PoolSnapshot struct {
	State         *amm.PoolState
	StateRecord   []byte
	Vault0        amm.AccountView
	Vault1        amm.AccountView
	Vault0Balance uint64
	Vault1Balance uint64
	FetchedAt     time.Time
}

// LoadAccountView 读取账户的原始快照。账户不存在时返回零值快照而非错误，
// 金库准备状态机依赖这一点区分 Absent。
func LoadAccountView(ctx context.Context, client *rpc.Client, address solana.PublicKey) (amm.AccountView, error) {
	view := amm.AccountView{Address: address}

	resp, err := client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return view, nil
		}
		log.Errorf("> 查询账户 %s 失败: %v", address.String(), err)
		return view, err
	}
	if resp == nil || resp.Value == nil {
		return view, nil
	}

	view.Lamports = resp.Value.Lamports
	view.Owner = resp.Value.Owner
	if resp.Value.Data != nil {
		view.DataLen = uint64(len(resp.Value.Data.GetBinary()))
	}
	return view, nil
}

// ParseSplAmount 从 SPL 余额记录的原始字节中解出余额
func ParseSplAmount(data []byte) (uint64, error) {
	if len(data) < splAmountOffset+8 {
		return 0, amm.ErrInvalidAccountData
	}
	return binary.LittleEndian.Uint64(data[splAmountOffset : splAmountOffset+8]), nil
}

// GetRentFloor 查询指定存储大小的账户需要保留的最低余额
func GetRentFloor(ctx context.Context, client *rpc.Client, dataLen uint64) (uint64, error) {
	floor, err := client.GetMinimumBalanceForRentExemption(ctx, dataLen, rpc.CommitmentFinalized)
	if err != nil {
		log.Errorf("> 查询租金底线失败 (dataLen=%d): %v", dataLen, err)
		return 0, err
	}
	return floor, nil
}

// LoadPoolSnapshot 批量读取池状态与两侧金库，三个账户来自同一次 RPC 调用。
// 金库不存在时余额记 0，池状态账户缺失或无法解码则返回错误。
func LoadPoolSnapshot(ctx context.Context, client *rpc.Client, poolState, vault0, vault1 solana.PublicKey) (*PoolSnapshot, error) {
	resp, err := client.GetMultipleAccountsWithOpts(ctx, []solana.PublicKey{poolState, vault0, vault1}, &rpc.GetMultipleAccountsOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		log.Errorf("> 批量查询池 %s 账户失败: %v", poolState.String(), err)
		return nil, err
	}
	if resp == nil || len(resp.Value) != 3 || resp.Value[0] == nil {
		return nil, fmt.Errorf("pool state account %s not found", poolState.String())
	}

	record := resp.Value[0].Data.GetBinary()
	state, err := amm.DecodePoolState(record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pool state %s: %w", poolState.String(), err)
	}

	snap := &PoolSnapshot{
		State:       state,
		StateRecord: record,
		Vault0:      amm.AccountView{Address: vault0},
		Vault1:      amm.AccountView{Address: vault1},
		FetchedAt:   time.Now(),
	}

	if acc := resp.Value[1]; acc != nil {
		snap.Vault0 = accountToView(vault0, acc)
		if amt, err := ParseSplAmount(acc.Data.GetBinary()); err == nil {
			snap.Vault0Balance = amt
		}
	}
	if acc := resp.Value[2]; acc != nil {
		snap.Vault1 = accountToView(vault1, acc)
		if amt, err := ParseSplAmount(acc.Data.GetBinary()); err == nil {
			snap.Vault1Balance = amt
		}
	}

	// 原生池的原生侧余额直接取持币账户的 lamports
	if state.IsNativePool {
		if state.NativeAssetPosition == 0 {
			snap.Vault0Balance = snap.Vault0.Lamports
		} else {
			snap.Vault1Balance = snap.Vault1.Lamports
		}
	}

	return snap, nil
}

func accountToView(address solana.PublicKey, acc *rpc.Account) amm.AccountView {
	view := amm.AccountView{
		Address:  address,
		Lamports: acc.Lamports,
		Owner:    acc.Owner,
	}
	if acc.Data != nil {
		view.DataLen = uint64(len(acc.Data.GetBinary()))
	}
	return view
}

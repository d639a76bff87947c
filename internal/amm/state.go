package amm

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// 池状态记录的三个历史布局（字节数均含 8 字节类型标签）
type StateLayout int

const (
	LayoutV1 StateLayout = iota // 基础字段
	LayoutV2                    // + 国库地址与协议费率
	LayoutV3                    // + 原生池字段
)

const (
	stateTagLen = 8

	// 各布局的记录总长度
	StateSizeV1 = stateTagLen + 8 + 8 + 8 // 32
	StateSizeV2 = StateSizeV1 + 32 + 2    // 66
	StateSizeV3 = StateSizeV2 + 1 + 8 + 1 // 76

	// 写回补丁使用的字段偏移
	offsetTotalShares   = stateTagLen
	offsetNativeReserve = StateSizeV2 + 1
)

// PoolState represents the on-chain pool record
type PoolState struct {
	Tag               [8]byte // 不透明类型标签，引擎原样保留
	TotalSharesMinted uint64
	FeeNumerator      uint64
	FeeDenominator    uint64

	// 零值哨兵：未配置国库时全部手续费归 LP
	ProtocolTreasury solana.PublicKey
	ProtocolFeeBps   uint16

	// 原生池字段，仅 LayoutV3 持久化
	IsNativePool        bool
	NativeAssetPosition uint8 // 0 或 1，原生资产所在侧
	NativeReserve       uint64
}

// HasTreasury 国库地址是否已配置
func (s *PoolState) HasTreasury() bool {
	return !s.ProtocolTreasury.IsZero()
}

// Layout 返回该状态需要的最小持久化布局
func (s *PoolState) Layout() StateLayout {
	if s.IsNativePool || s.NativeReserve != 0 || s.NativeAssetPosition != 0 {
		return LayoutV3
	}
	if s.HasTreasury() || s.ProtocolFeeBps != 0 {
		return LayoutV2
	}
	return LayoutV1
}

// DecodePoolState 按记录长度自动识别历史布局。
// 旧布局缺失的尾部字段取零值默认，不视为错误。
func DecodePoolState(data []byte) (*PoolState, error) {
	if len(data) < StateSizeV1 {
		return nil, ErrInvalidAccountData
	}

	s := &PoolState{}
	copy(s.Tag[:], data[:stateTagLen])

	cursor := data[stateTagLen:]
	s.TotalSharesMinted = binary.LittleEndian.Uint64(cursor[0:8])
	s.FeeNumerator = binary.LittleEndian.Uint64(cursor[8:16])
	s.FeeDenominator = binary.LittleEndian.Uint64(cursor[16:24])
	cursor = cursor[24:]

	// V2 扩展：国库地址(32) + 协议费率(2)
	if len(cursor) >= 34 {
		s.ProtocolTreasury = solana.PublicKeyFromBytes(cursor[0:32])
		s.ProtocolFeeBps = binary.LittleEndian.Uint16(cursor[32:34])
		cursor = cursor[34:]

		// V3 扩展：原生池标志(1) + 原生储备(8) + 原生侧位置(1)
		if len(cursor) >= 10 {
			s.IsNativePool = cursor[0] != 0
			s.NativeReserve = binary.LittleEndian.Uint64(cursor[1:9])
			s.NativeAssetPosition = cursor[9]
		}
	}

	return s, nil
}

// Encode 按指定布局序列化，较旧布局会静默截断较新的字段
func (s *PoolState) Encode(layout StateLayout) []byte {
	size := StateSizeV1
	switch layout {
	case LayoutV2:
		size = StateSizeV2
	case LayoutV3:
		size = StateSizeV3
	}

	buf := make([]byte, size)
	copy(buf[:stateTagLen], s.Tag[:])
	binary.LittleEndian.PutUint64(buf[stateTagLen:], s.TotalSharesMinted)
	binary.LittleEndian.PutUint64(buf[stateTagLen+8:], s.FeeNumerator)
	binary.LittleEndian.PutUint64(buf[stateTagLen+16:], s.FeeDenominator)

	if layout >= LayoutV2 {
		copy(buf[StateSizeV1:StateSizeV1+32], s.ProtocolTreasury[:])
		binary.LittleEndian.PutUint16(buf[StateSizeV1+32:], s.ProtocolFeeBps)
	}
	if layout >= LayoutV3 {
		if s.IsNativePool {
			buf[StateSizeV2] = 1
		}
		binary.LittleEndian.PutUint64(buf[offsetNativeReserve:], s.NativeReserve)
		buf[StateSizeV3-1] = s.NativeAssetPosition
	}

	return buf
}

// PatchTotalShares 将份额总量直接写回原始记录的对应字节段
func PatchTotalShares(record []byte, totalShares uint64) error {
	if len(record) < offsetTotalShares+8 {
		return ErrInvalidAccountData
	}
	binary.LittleEndian.PutUint64(record[offsetTotalShares:], totalShares)
	return nil
}

// PatchNativeReserve 将原生储备直接写回原始记录的对应字节段，
// 仅对 LayoutV3 长度的记录有效
func PatchNativeReserve(record []byte, reserve uint64) error {
	if len(record) < offsetNativeReserve+8 {
		return ErrInvalidAccountData
	}
	binary.LittleEndian.PutUint64(record[offsetNativeReserve:], reserve)
	return nil
}

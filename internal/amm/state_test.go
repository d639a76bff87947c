package amm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoolState() *PoolState {
	return &PoolState{
		Tag:                 [8]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4},
		TotalSharesMinted:   123456,
		FeeNumerator:        3,
		FeeDenominator:      1000,
		ProtocolTreasury:    solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		ProtocolFeeBps:      25,
		IsNativePool:        true,
		NativeAssetPosition: 1,
		NativeReserve:       987654321,
	}
}

func TestPoolStateRoundTrip(t *testing.T) {
	full := samplePoolState()

	t.Run("Layout V3", func(t *testing.T) {
		buf := full.Encode(LayoutV3)
		require.Len(t, buf, StateSizeV3)

		decoded, err := DecodePoolState(buf)
		require.NoError(t, err)
		assert.Equal(t, full, decoded)
	})

	t.Run("Layout V2 Truncates Native Fields", func(t *testing.T) {
		buf := full.Encode(LayoutV2)
		require.Len(t, buf, StateSizeV2)

		decoded, err := DecodePoolState(buf)
		require.NoError(t, err)
		assert.Equal(t, full.ProtocolTreasury, decoded.ProtocolTreasury)
		assert.Equal(t, full.ProtocolFeeBps, decoded.ProtocolFeeBps)
		assert.False(t, decoded.IsNativePool)
		assert.Zero(t, decoded.NativeReserve)
		assert.Zero(t, decoded.NativeAssetPosition)
	})

	t.Run("Layout V1 Truncates Treasury Fields", func(t *testing.T) {
		buf := full.Encode(LayoutV1)
		require.Len(t, buf, StateSizeV1)

		decoded, err := DecodePoolState(buf)
		require.NoError(t, err)
		assert.Equal(t, full.Tag, decoded.Tag)
		assert.Equal(t, full.TotalSharesMinted, decoded.TotalSharesMinted)
		assert.Equal(t, full.FeeNumerator, decoded.FeeNumerator)
		assert.Equal(t, full.FeeDenominator, decoded.FeeDenominator)
		assert.True(t, decoded.ProtocolTreasury.IsZero())
		assert.Zero(t, decoded.ProtocolFeeBps)
		assert.False(t, decoded.IsNativePool)
	})
}

func TestDecodePoolStateTooShort(t *testing.T) {
	_, err := DecodePoolState(make([]byte, StateSizeV1-1))
	assert.ErrorIs(t, err, ErrInvalidAccountData)
}

func TestPoolStateLayout(t *testing.T) {
	s := &PoolState{FeeNumerator: 3, FeeDenominator: 1000}
	assert.Equal(t, LayoutV1, s.Layout())

	s.ProtocolFeeBps = 25
	assert.Equal(t, LayoutV2, s.Layout())

	s.IsNativePool = true
	assert.Equal(t, LayoutV3, s.Layout())
}

func TestPatchHelpers(t *testing.T) {
	full := samplePoolState()
	record := full.Encode(LayoutV3)

	require.NoError(t, PatchTotalShares(record, 777))
	require.NoError(t, PatchNativeReserve(record, 888))

	decoded, err := DecodePoolState(record)
	require.NoError(t, err)
	assert.Equal(t, uint64(777), decoded.TotalSharesMinted)
	assert.Equal(t, uint64(888), decoded.NativeReserve)

	t.Run("Record Too Short For Patch", func(t *testing.T) {
		short := full.Encode(LayoutV1)
		assert.NoError(t, PatchTotalShares(short, 1))
		assert.ErrorIs(t, PatchNativeReserve(short, 1), ErrInvalidAccountData)
	})
}

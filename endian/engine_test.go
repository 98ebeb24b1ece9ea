package endian

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEngines(t *testing.T) {
	require := require.New(t)

	le := GetLittleEndianEngine()
	be := GetBigEndianEngine()

	require.True(IsLittleEndian(le))
	require.False(IsLittleEndian(be))

	require.Equal([]byte{0x01, 0x02}, be.AppendUint16(nil, 0x0102))
	require.Equal([]byte{0x02, 0x01}, le.AppendUint16(nil, 0x0102))
}

func TestFloatLayout(t *testing.T) {
	engine := GetLittleEndianEngine()

	buf := engine.AppendUint64(nil, math.Float64bits(1.5))
	require.Len(t, buf, 8)
	require.Equal(t, byte(0x3F), buf[7])
	require.InDelta(t, 1.5, math.Float64frombits(engine.Uint64(buf)), 0)
}

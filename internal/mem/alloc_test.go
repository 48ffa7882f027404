package mem

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundUp(t *testing.T) {
	tests := []struct {
		n, m, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{5, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{100, 64, 128},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundUp(tt.n, tt.m), "RoundUp(%d, %d)", tt.n, tt.m)
	}
}

func TestAllocAligned(t *testing.T) {
	for _, size := range []int{1, 63, 64, 65, 4096} {
		buf := AllocAligned(size)
		require.Len(t, buf, size)

		addr := uintptr(unsafe.Pointer(&buf[0]))
		assert.Zero(t, addr%Alignment, "size %d: address %x not aligned", size, addr)
	}
}

func TestAllocAlignedZeroSize(t *testing.T) {
	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAlignedFloat32(0))
}

func TestAllocAlignedFloat32(t *testing.T) {
	buf := AllocAlignedFloat32(1000)
	require.Len(t, buf, 1000)

	addr := uintptr(unsafe.Pointer(&buf[0]))
	assert.Zero(t, addr%Alignment)

	// Freshly allocated memory is zeroed.
	for i, v := range buf {
		require.Zero(t, v, "index %d", i)
	}

	buf[0] = 1.5
	buf[999] = -2.5
	assert.Equal(t, float32(1.5), buf[0])
	assert.Equal(t, float32(-2.5), buf[999])
}

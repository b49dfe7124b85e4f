package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueNeverIncreases(t *testing.T) {
	for n := 1; n < 1000; n++ {
		require.GreaterOrEqualf(t, Value(n), Value(n+1), "value(%d) < value(%d)", n, n+1)
	}
}

func TestValueNeverNegative(t *testing.T) {
	for _, n := range []int{1, 32, 33, 100, 500, 10_000, math.MaxInt32} {
		v := Value(n)
		assert.GreaterOrEqualf(t, v, Floor, "value(%d)", n)
		assert.False(t, math.IsNaN(v))
	}
}

func TestValueCharted(t *testing.T) {
	tests := []struct {
		pick int
		want float64
	}{
		{1, 3000},
		{2, 2600},
		{10, 1300},
		{16, 1000},
		{32, 590},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, Value(tt.pick), "pick %d", tt.pick)
	}
}

func TestValueBeyondChartDecays(t *testing.T) {
	assert.Less(t, Value(33), Value(32))
	assert.InDelta(t, Floor, Value(2000), 0.001)
}

func TestValueClampsNonPositive(t *testing.T) {
	assert.Equal(t, Value(1), Value(0))
	assert.Equal(t, Value(1), Value(-5))
}

func TestValueDeterministic(t *testing.T) {
	for n := 1; n < 200; n += 7 {
		assert.Equal(t, Value(n), Value(n))
	}
}

func TestFutureFirstValue(t *testing.T) {
	assert.Equal(t, Value(16), FutureFirstValue(32))
	assert.Equal(t, Value(2), FutureFirstValue(4))
	assert.Equal(t, Value(1), FutureFirstValue(0))
}

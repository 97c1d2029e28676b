package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	assert.Equal(t, 10.56, Round(10.556))
	assert.Equal(t, 10.55, Round(10.554))
	assert.Equal(t, 0.0, Round(0))
	assert.Equal(t, -2.34, Round(-2.336))
	assert.Equal(t, 333.33, Round(1000.0/3.0))
}

func TestSplitEvenly(t *testing.T) {
	assert.Equal(t, []float64{333.33, 333.33, 333.34}, SplitEvenly(1000, 3))
	assert.Equal(t, []float64{500}, SplitEvenly(500, 1))
	assert.Equal(t, []float64{0.33, 0.33, 0.34}, SplitEvenly(1, 3))
	assert.Nil(t, SplitEvenly(100, 0))
	assert.Nil(t, SplitEvenly(100, -1))
}

func TestSplitEvenly_SumsToTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		total := Round(rng.Float64() * 10000)
		n := 1 + rng.Intn(24)
		parts := SplitEvenly(total, n)
		require.Len(t, parts, n)

		var sum float64
		for _, part := range parts {
			sum += part
		}
		assert.Equal(t, total, Round(sum), "total=%v n=%d", total, n)
	}
}

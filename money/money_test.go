package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMicroRoundsToNearestMicro(t *testing.T) {
	assert.Equal(t, int64(10_000_000), ToMicro(10.0))
	assert.Equal(t, int64(1_500_000), ToMicro(1.5))
	assert.Equal(t, int64(1), ToMicro(0.000001))
}

func TestToCoinsRoundTrip(t *testing.T) {
	micro := ToMicro(42.1234567)
	assert.InDelta(t, 42.1234567, ToCoins(micro), 1e-6)
}

func TestToCoinsStringHasNoBinaryDrift(t *testing.T) {
	micro := ToMicro(0.1) + ToMicro(0.2)
	assert.Equal(t, "0.3000000", ToCoinsString(micro))
}

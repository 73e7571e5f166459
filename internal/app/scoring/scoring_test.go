package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentral_PointsWithinRange(t *testing.T) {
	central := NewCentral()

	for i := 0; i < 1000; i++ {
		points, err := central.RewardPoints(context.Background(), uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, points, 1)
		assert.LessOrEqual(t, points, 1000)
	}
}

func TestCentral_LatencyHonorsCancellation(t *testing.T) {
	central := NewCentralWithLatency(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := central.RewardPoints(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, context.Canceled)
}

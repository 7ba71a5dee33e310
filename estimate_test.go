package rebound

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnnabellaMondino/rebound/internal/binfile"
)

func TestEstimateTime_NonNegative(t *testing.T) {
	sa, err := Open(buildOrbitArchive(t))
	require.NoError(t, err)
	defer sa.Close()

	for _, tq := range []float64{0, 10, 20.5, 39.9, 50} {
		est, err := sa.EstimateTime(tq)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, est, 0.0, "t=%g", tq)
	}
}

func TestEstimateTime_OutOfRange(t *testing.T) {
	sa, err := Open(buildOrbitArchive(t))
	require.NoError(t, err)
	defer sa.Close()

	_, err = sa.EstimateTime(-1)
	require.Error(t, err)
	assert.True(t, IsRangeError(err))
}

func TestEstimateTime_MemoizesSpeed(t *testing.T) {
	sa, err := Open(buildOrbitArchive(t))
	require.NoError(t, err)
	defer sa.Close()

	first, err := sa.EstimateTime(23)
	require.NoError(t, err)
	assert.True(t, sa.speedSet)

	again, err := sa.EstimateTime(23)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestEstimateTimeAfter_NeverCostsMore(t *testing.T) {
	sa, err := Open(buildOrbitArchive(t))
	require.NoError(t, err)
	defer sa.Close()

	cold, err := sa.EstimateTime(23)
	require.NoError(t, err)
	warm, err := sa.EstimateTimeAfter(23, 22)
	require.NoError(t, err)
	assert.LessOrEqual(t, warm, cold)
}

func TestEstimateTimes_SumsSweep(t *testing.T) {
	sa, err := Open(buildOrbitArchive(t))
	require.NoError(t, err)
	defer sa.Close()

	times := []float64{30.5, 10.5}
	total, err := sa.EstimateTimes(times)
	require.NoError(t, err)

	first, err := sa.EstimateTime(10.5)
	require.NoError(t, err)
	second, err := sa.EstimateTimeAfter(30.5, 10.5)
	require.NoError(t, err)
	assert.InDelta(t, first+second, total, 1e-12)

	// Batching with reuse never predicts more than isolated queries.
	secondCold, err := sa.EstimateTime(30.5)
	require.NoError(t, err)
	assert.LessOrEqual(t, total, first+secondCold)

	// The caller's slice is left alone.
	assert.Equal(t, []float64{30.5, 10.5}, times)
}

// TestEstimateTime_DegenerateSpeed covers an archive whose final checkpoint
// recorded zero walltime. Such runs predict as free instead of failing.
func TestEstimateTime_DegenerateSpeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.bin")
	h := binfile.Header{N: 1, G: 1, Dt: 0.25, Interval: 10}
	rec := binfile.Record{Dt: 0.25, Synchronized: true, Particles: make([]binfile.ParticleState, 1)}
	w, err := binfile.Create(path, h, rec)
	require.NoError(t, err)
	rec.T = 10
	rec.Steps = 40
	require.NoError(t, w.Append(rec))
	require.NoError(t, w.Close())

	sa, err := Open(path)
	require.NoError(t, err)
	defer sa.Close()

	est, err := sa.EstimateTime(15)
	require.NoError(t, err)
	assert.Equal(t, 0.0, est)
}

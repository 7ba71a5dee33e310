package rebound

import (
	"log/slog"
	"math"
	"slices"

	"github.com/AnnabellaMondino/rebound/internal/binfile"
)

// EstimateTime predicts the wall-clock seconds needed to reconstruct the
// state at time t from the nearest preceding checkpoint, based on the
// recorded integration speed of the original run. Estimates transfer poorly
// across machines: they assume hardware comparable to wherever the archive
// was produced.
func (a *Archive) EstimateTime(t float64) (float64, error) {
	return a.estimate(t, 0, false)
}

// EstimateTimeAfter is EstimateTime under the assumption that a state at
// tbefore is already held: the prediction is the cheaper of reloading the
// nearest checkpoint and continuing from tbefore, mirroring the reuse
// heuristic in GetSimulation.
func (a *Archive) EstimateTimeAfter(t, tbefore float64) (float64, error) {
	return a.estimate(t, tbefore, true)
}

// EstimateTimes predicts the total wall-clock seconds for a batch of
// queries, assuming they are issued in ascending order (as GetSimulations
// does) so each query can reuse its predecessor's state. The input slice is
// not modified.
func (a *Archive) EstimateTimes(times []float64) (float64, error) {
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	total := 0.0
	tbefore := 0.0
	for _, t := range sorted {
		est, err := a.estimate(t, tbefore, true)
		if err != nil {
			return 0, err
		}
		total += est
		tbefore = t
	}
	return total, nil
}

func (a *Archive) estimate(t, tbefore float64, haveBefore bool) (float64, error) {
	if !a.speedSet {
		if err := a.computeSpeed(); err != nil {
			return 0, err
		}
	}
	_, blobTime, err := a.resolveBefore(t)
	if err != nil {
		return 0, err
	}
	est := (t - blobTime) / a.speed
	if haveBefore {
		if alt := (t - tbefore) / a.speed; alt < est {
			est = alt
		}
	}
	return est, nil
}

// computeSpeed derives the run's average integration speed from the final
// checkpoint and memoizes it for the archive's lifetime. The record is read
// directly rather than loaded into the handle, so estimating never disturbs
// a state held for reuse.
func (a *Archive) computeSpeed() error {
	last := a.nblob - 1
	rec, status := a.reader.ReadRecord(last)
	if status != binfile.StatusOK {
		return newLoadError(last, status)
	}
	speed := rec.T / rec.Walltime
	if math.IsNaN(speed) || speed <= 0 {
		// Degenerate runs (zero recorded runtime or a t=0-only archive)
		// predict as free rather than failing.
		speed = math.Inf(1)
	}
	a.speed = speed
	a.speedSet = true
	slog.Debug("estimator speed memoized", "speed", speed, "last_t", rec.T, "last_walltime", rec.Walltime)
	return nil
}

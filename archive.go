package rebound

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/AnnabellaMondino/rebound/internal/binfile"
)

// Archive provides random access to a simulation checkpoint file.
//
// The archive exclusively owns one mutable Simulation handle; every load or
// reconstruction overwrites it destructively and returns the same pointer.
// Access is single-threaded by design: concurrent use of one Archive needs
// an external mutex or per-goroutine Archive instances. The dominant usage
// pattern is a forward sweep of monotonically increasing times, which the
// reuse heuristic in GetSimulation turns into amortized-cheap forward
// integration.
//
// The backing file is opened read-only and never mutated.
type Archive struct {
	path   string
	reader *binfile.Reader
	sim    *Simulation
	forces ForceFunc

	dt       float64
	interval float64
	tmin     float64
	tmax     float64
	nblob    int64

	// speed is the memoized average integration speed of the original run,
	// computed at most once, on first estimator use.
	speed    float64
	speedSet bool
}

// ArchiveOption configures Open.
type ArchiveOption func(*Archive)

// WithForces supplies the force callback that was active during the original
// run. Loading a blob does not preserve callback registrations, so the
// archive re-attaches this callback to the handle after every load.
func WithForces(f ForceFunc) ArchiveOption {
	return func(a *Archive) {
		a.forces = f
	}
}

// Open reads the archive header at path, reconstructs a fresh simulation
// state at t=0, and derives the time index from the file size and the
// header's seek offsets.
//
// Open fails with a format error when the engine's reconstruction reports a
// fatal warning (bit 0 of its warning bitmask); other warning bits are
// accepted silently.
func Open(path string, opts ...ArchiveOption) (*Archive, error) {
	r, err := binfile.Open(path)
	if err != nil {
		return nil, newFormatError(path, "cannot open archive", err)
	}
	if w := r.Warnings(); w.Fatal() {
		r.Close()
		return nil, newFormatError(path, fmt.Sprintf("fatal reconstruction warning (bitmask %#x)", uint32(w)), nil)
	}
	h := r.Header()
	if h.Interval <= 0 {
		r.Close()
		return nil, newFormatError(path, "archive has no checkpoint interval", nil)
	}

	rec, status := r.ReadRecord(0)
	if status != binfile.StatusOK {
		r.Close()
		return nil, newFormatError(path, fmt.Sprintf("cannot reconstruct initial state (status %d)", status), nil)
	}

	sim := NewSimulation()
	sim.RunID = uuid.UUID(h.RunID)
	sim.G = h.G
	sim.Dt = h.Dt
	sim.Particles = make([]Particle, h.N)
	sim.archiveSource = path
	if st := sim.restoreRecord(rec); st != binfile.StatusOK {
		r.Close()
		return nil, newFormatError(path, fmt.Sprintf("cannot restore initial state (status %d)", st), nil)
	}

	a := &Archive{
		path:     path,
		reader:   r,
		sim:      sim,
		dt:       h.Dt,
		interval: h.Interval,
		tmin:     0, // trajectories start at t=0
		nblob:    r.NumRecords(),
	}
	a.tmax = a.tmin + a.interval*float64(a.nblob+1)
	for _, opt := range opts {
		opt(a)
	}
	sim.AdditionalForces = a.forces

	slog.Debug("archive opened",
		"path", path,
		"run_id", sim.RunID,
		"nblob", a.nblob,
		"dt", a.dt,
		"interval", a.interval,
		"tmax", a.tmax,
	)
	return a, nil
}

// Close releases the mapped file. The handle stays valid as in-memory state
// but can no longer be reloaded or advanced through the archive.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// Len returns the number of blobs stored in the archive.
func (a *Archive) Len() int { return int(a.nblob) }

// Path returns the backing file's path.
func (a *Archive) Path() string { return a.path }

// RunID returns the run identifier stamped into the archive header.
func (a *Archive) RunID() uuid.UUID { return a.sim.RunID }

// Dt returns the original run's timestep.
func (a *Archive) Dt() float64 { return a.dt }

// Interval returns the simulation-time spacing between checkpoints.
func (a *Archive) Interval() float64 { return a.interval }

// TMin returns the earliest queryable time.
func (a *Archive) TMin() float64 { return a.tmin }

// TMax returns the nominal upper time bound. Queries are accepted up to one
// timestep past it.
func (a *Archive) TMax() float64 { return a.tmax }

// Size returns the backing file's size in bytes.
func (a *Archive) Size() int64 { return a.reader.Size() }

// N returns the (fixed) particle count of the archived run.
func (a *Archive) N() int { return len(a.sim.Particles) }

// G returns the archived run's gravitational constant.
func (a *Archive) G() float64 { return a.sim.G }

// Get loads blob i into the archive's handle and returns the handle with
// physical coordinates. Negative indices wrap: Get(-1) is the last blob.
// Indices outside [-Len, Len) fail with a range error.
func (a *Archive) Get(i int) (*Simulation, error) {
	if i < 0 {
		i += int(a.nblob)
	}
	if i < 0 || i >= int(a.nblob) {
		return nil, newRangeIndexError(int64(i), a.nblob)
	}
	return a.loadBlob(int64(i), true)
}

// Simulations iterates the archive's blobs in order. Every yielded state
// aliases the same handle, so a consumer must extract (or Copy) what it
// needs before advancing. Iteration stops at the first load failure.
func (a *Archive) Simulations() iter.Seq2[*Simulation, error] {
	return func(yield func(*Simulation, error) bool) {
		for i := int64(0); i < a.nblob; i++ {
			sim, err := a.loadBlob(i, true)
			if !yield(sim, err) || err != nil {
				return
			}
		}
	}
}

// loadBlob overwrites the handle with checkpoint index and returns it.
//
// On success the handle carries the requested keep-unsynchronized flag, has
// the stored force callback re-attached, has its auto-write target cleared
// (continued integration must not append to the source file), and is
// synchronized unconditionally so the caller always observes physical
// coordinates.
func (a *Archive) loadBlob(index int64, keepUnsynchronized bool) (*Simulation, error) {
	if err := a.loadBlobRaw(index); err != nil {
		return nil, err
	}
	a.sim.KeepUnsynchronized = keepUnsynchronized
	a.sim.AdditionalForces = a.forces
	a.sim.disableArchiving()
	a.sim.Synchronize()
	return a.sim, nil
}

// loadBlobRaw restores checkpoint index into the handle without touching
// flags or synchronization. Nonzero engine status becomes a load error
// carrying the raw code.
func (a *Archive) loadBlobRaw(index int64) error {
	rec, status := a.reader.ReadRecord(index)
	if status != binfile.StatusOK {
		return newLoadError(index, status)
	}
	if st := a.sim.restoreRecord(rec); st != binfile.StatusOK {
		return newLoadError(index, st)
	}
	return nil
}

// resolveBefore maps a requested time to the nearest checkpoint at or before
// it.
//
// The query range allows one timestep of slack past tmax because the last
// checkpoint may have been written up to one step past its nominal time; for
// the same reason the index computation subtracts dt, guaranteeing the
// chosen checkpoint's true time is <= t, which the forward-integration logic
// in GetSimulation depends on.
func (a *Archive) resolveBefore(t float64) (int64, float64, error) {
	if t < a.tmin || t > a.tmax+a.dt {
		return 0, 0, newRangeTimeError(t, a.tmin, a.tmax, a.dt)
	}
	index := int64(math.Floor((t - a.dt - a.tmin) / a.interval))
	if index < 0 {
		index = 0
	}
	blobTime := a.tmin + a.interval*float64(index)
	return index, blobTime, nil
}

// GetSimulation reconstructs the simulation state for time t and returns the
// archive's handle. The result aliases the handle and is overwritten by the
// next call; Copy it to keep it.
//
//   - ModeBlob: nearest preceding checkpoint only; may lag t by up to one
//     checkpoint interval.
//   - ModeClose: integrate forward, overshooting t by at most one timestep.
//   - ModeExact: integrate forward and land on t precisely. Forces the
//     keep-unsynchronized flag off, since exact stepping needs a
//     synchronized corrector at each step.
//
// If the handle already holds a reusable state below t, integration
// continues from it instead of reloading a checkpoint; the reuse is a pure
// optimization and never changes the observable result.
func (a *Archive) GetSimulation(t float64, mode Mode, keepUnsynchronized bool) (*Simulation, error) {
	if !mode.valid() {
		return nil, newConfigError(fmt.Sprintf("unknown mode %s", mode))
	}
	index, blobTime, err := a.resolveBefore(t)
	if err != nil {
		return nil, err
	}
	if mode == ModeBlob {
		return a.loadBlob(index, keepUnsynchronized)
	}

	sim := a.sim
	reuse := sim.T < t && blobTime-sim.Dt < sim.T && sim.KeepUnsynchronized
	if reuse {
		slog.Debug("reusing held state", "t", t, "sim_t", sim.T, "blob", index)
	} else {
		if err := a.loadBlobRaw(index); err != nil {
			return nil, err
		}
	}

	if mode == ModeExact {
		// The corrector must be synchronized at every exact step; a kept
		// internal representation would be discarded anyway.
		keepUnsynchronized = false
	}
	sim.KeepUnsynchronized = keepUnsynchronized
	sim.AdditionalForces = a.forces
	sim.disableArchiving()
	if err := sim.Integrate(t, mode == ModeExact); err != nil {
		// Engine stop conditions propagate unmodified.
		return nil, err
	}
	return sim, nil
}

// GetSimulations reconstructs states for a batch of times, yielding them in
// ascending time order regardless of input order. Ascending order is what
// makes the reuse heuristic effective: a sorted sweep turns independent
// reloads into cheap forward integration.
//
// The input slice is not modified. The sequence is lazy, single-use, and
// stops at the first failure.
func (a *Archive) GetSimulations(times []float64, mode Mode, keepUnsynchronized bool) iter.Seq2[*Simulation, error] {
	sorted := slices.Clone(times)
	slices.Sort(sorted)
	return func(yield func(*Simulation, error) bool) {
		for _, t := range sorted {
			sim, err := a.GetSimulation(t, mode, keepUnsynchronized)
			if !yield(sim, err) || err != nil {
				return
			}
		}
	}
}

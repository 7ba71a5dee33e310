package rebound

import (
	"github.com/google/uuid"

	"github.com/AnnabellaMondino/rebound/internal/binfile"
)

// ForceFunc adds user-defined accelerations to a simulation. It is called
// after gravitational accelerations have been filled in, once per force
// evaluation; implementations add to the particles' AX/AY/AZ fields.
//
// Checkpoint records do not persist callback registrations, so a ForceFunc
// active during the original run must be supplied again when the archive is
// read back (see WithForces).
type ForceFunc func(*Simulation)

// Simulation is the mutable state handle of one N-body integration.
//
// Between steps the integrator holds velocities in a fast internal
// representation; Synchronize converts them to physical coordinates. With
// KeepUnsynchronized set, synchronizing backs the internal representation up
// and stepping restores it, so an integration interrupted by a state read
// continues bit-for-bit as if it had never been observed.
//
// A Simulation is not safe for concurrent use.
type Simulation struct {
	T         float64
	Dt        float64
	G         float64
	RunID     uuid.UUID
	Particles []Particle

	// KeepUnsynchronized marks the handle as reusable: the internal
	// velocity representation survives Synchronize and forward integration
	// can continue from it without a reload.
	KeepUnsynchronized bool

	// AdditionalForces, when non-nil, is invoked on every force evaluation.
	AdditionalForces ForceFunc

	// MaxDistance, when positive, stops integration with an EscapeError as
	// soon as any particle moves farther than this from the origin.
	MaxDistance float64

	// Steps counts integrator steps taken since t=0.
	Steps uint64

	// Walltime is the cumulative wall-clock integration time in seconds.
	// It is persisted in checkpoint records and drives runtime estimates.
	Walltime float64

	isSynchronized bool
	unsyncVel      [][3]float64 // backup of the internal representation, nil when absent

	archive         *binfile.Writer
	archivePath     string
	archiveInterval float64
	archiveNext     float64

	// archiveSource names the read-only file this handle was reconstructed
	// from, if any. Auto-write must never target it.
	archiveSource string
}

// NewSimulation returns an empty simulation at t=0 with G=1 and a default
// timestep, stamped with a fresh run ID.
func NewSimulation() *Simulation {
	return &Simulation{
		Dt:             0.001,
		G:              1,
		RunID:          uuid.Must(uuid.NewV7()),
		isSynchronized: true,
	}
}

// Add appends a particle. Particle count is fixed once integration or
// archiving begins; Add is only meaningful during setup.
func (s *Simulation) Add(p Particle) {
	s.Particles = append(s.Particles, p)
}

// N returns the particle count.
func (s *Simulation) N() int { return len(s.Particles) }

// Synchronized reports whether the handle currently exposes physical
// coordinates.
func (s *Simulation) Synchronized() bool { return s.isSynchronized }

// Copy returns an independent deep copy of the state. The copy does not
// inherit the auto-write target; callers re-enable archiving explicitly if
// the copy should produce output.
func (s *Simulation) Copy() *Simulation {
	c := *s
	c.Particles = make([]Particle, len(s.Particles))
	copy(c.Particles, s.Particles)
	if s.unsyncVel != nil {
		c.unsyncVel = make([][3]float64, len(s.unsyncVel))
		copy(c.unsyncVel, s.unsyncVel)
	}
	c.archive = nil
	c.archivePath = ""
	c.archiveInterval = 0
	c.archiveNext = 0
	return &c
}

// EnableArchiving makes integration append a checkpoint record to path each
// time the simulation time crosses a multiple of interval. The file is
// created immediately with the current state as its t=0 record.
//
// A handle owned by an open Archive refuses to target the archive's own
// backing file: that file is read-only for the Archive's lifetime.
func (s *Simulation) EnableArchiving(path string, interval float64) error {
	if s.archiveSource != "" && path == s.archiveSource {
		return newReadOnlyError(path)
	}
	if interval <= 0 {
		return newConfigError("archive interval must be positive")
	}
	h := binfile.Header{
		RunID:    [16]byte(s.RunID),
		N:        uint32(len(s.Particles)),
		G:        s.G,
		Dt:       s.Dt,
		Interval: interval,
	}
	w, err := binfile.Create(path, h, s.record())
	if err != nil {
		return err
	}
	s.archive = w
	s.archivePath = path
	s.archiveInterval = interval
	s.archiveNext = s.T + interval
	return nil
}

// disableArchiving clears the auto-write target so continued integration
// does not append new checkpoints. The writer, if any, is left to its owner.
func (s *Simulation) disableArchiving() {
	s.archive = nil
	s.archivePath = ""
	s.archiveInterval = 0
	s.archiveNext = 0
}

// CloseArchive flushes and closes the auto-write target, if one is open.
func (s *Simulation) CloseArchive() error {
	w := s.archive
	s.disableArchiving()
	if w == nil {
		return nil
	}
	return w.Close()
}

// record captures the current raw state, internal representation included,
// as a checkpoint record. Writing raw state is what lets a reloaded blob
// continue bit-for-bit identically to the live run.
func (s *Simulation) record() binfile.Record {
	rec := binfile.Record{
		T:            s.T,
		Dt:           s.Dt,
		Walltime:     s.Walltime,
		Steps:        s.Steps,
		Synchronized: s.isSynchronized,
		Particles:    make([]binfile.ParticleState, len(s.Particles)),
	}
	for i, p := range s.Particles {
		rec.Particles[i] = binfile.ParticleState{
			M: p.M, X: p.X, Y: p.Y, Z: p.Z, VX: p.VX, VY: p.VY, VZ: p.VZ,
		}
	}
	return rec
}

// restoreRecord overwrites the handle with a decoded checkpoint. Any backup
// of a previous internal representation is discarded.
func (s *Simulation) restoreRecord(rec binfile.Record) int {
	if len(rec.Particles) != len(s.Particles) {
		return binfile.StatusParticleCount
	}
	s.T = rec.T
	s.Dt = rec.Dt
	s.Walltime = rec.Walltime
	s.Steps = rec.Steps
	s.isSynchronized = rec.Synchronized
	s.unsyncVel = nil
	for i, ps := range rec.Particles {
		p := &s.Particles[i]
		p.M, p.X, p.Y, p.Z = ps.M, ps.X, ps.Y, ps.Z
		p.VX, p.VY, p.VZ = ps.VX, ps.VY, ps.VZ
		p.AX, p.AY, p.AZ = 0, 0, 0
	}
	return binfile.StatusOK
}

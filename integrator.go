package rebound

import (
	"fmt"
	"math"
	"time"
)

// EscapeError is the integrator's stop condition: a particle crossed the
// configured MaxDistance. It aborts the current Integrate call and is
// returned to the caller unmodified.
type EscapeError struct {
	ParticleIndex int
	Distance      float64
	T             float64
}

// Error implements the error interface.
func (e *EscapeError) Error() string {
	return fmt.Sprintf("particle %d escaped to distance %g at t=%g", e.ParticleIndex, e.Distance, e.T)
}

// Integrate advances the simulation to at least time t.
//
// With exactFinishTime false the last step may overshoot t by at most one
// timestep. With exactFinishTime true the integrator synchronizes, takes one
// shortened step, and lands on t precisely; the handle's time field equals t
// exactly afterwards.
//
// The handle is synchronized when Integrate returns. Whether the fast
// internal representation survives the final synchronization is controlled
// by KeepUnsynchronized.
func (s *Simulation) Integrate(t float64, exactFinishTime bool) error {
	if t < s.T {
		return fmt.Errorf("cannot integrate backwards: requested t=%g, current t=%g", t, s.T)
	}
	start := time.Now()
	base := s.Walltime
	accrue := func() { s.Walltime = base + time.Since(start).Seconds() }
	defer accrue()

	if exactFinishTime {
		for s.T+s.Dt < t {
			if err := s.step(); err != nil {
				return err
			}
			accrue()
			if err := s.maybeWriteCheckpoint(); err != nil {
				return err
			}
		}
		s.Synchronize()
		if h := t - s.T; h > 0 {
			if err := s.stepTo(h); err != nil {
				return err
			}
		}
		// Assign rather than accumulate: the caller asked for t exactly.
		s.T = t
		accrue()
		return s.maybeWriteCheckpoint()
	}

	for s.T < t {
		if err := s.step(); err != nil {
			return err
		}
		accrue()
		if err := s.maybeWriteCheckpoint(); err != nil {
			return err
		}
	}
	s.Synchronize()
	return nil
}

// step advances by one full timestep in the lazy-synchronization scheme:
// adjacent half-kicks of consecutive steps are fused into full kicks, so
// velocities stay in the internal half-step representation between steps.
func (s *Simulation) step() error {
	if s.unsyncVel != nil {
		for i := range s.Particles {
			p := &s.Particles[i]
			p.VX, p.VY, p.VZ = s.unsyncVel[i][0], s.unsyncVel[i][1], s.unsyncVel[i][2]
		}
		s.unsyncVel = nil
		s.isSynchronized = false
	}
	s.computeAccelerations()
	if s.isSynchronized {
		s.kick(0.5 * s.Dt)
		s.isSynchronized = false
	} else {
		s.kick(s.Dt)
	}
	s.drift(s.Dt)
	s.T += s.Dt
	s.Steps++
	return s.checkEscape()
}

// stepTo takes one synchronized kick-drift-kick step of size h. The handle
// must be synchronized on entry and remains synchronized on exit. Used for
// the shortened final step of exact-finish-time integration.
func (s *Simulation) stepTo(h float64) error {
	s.computeAccelerations()
	s.kick(0.5 * h)
	s.drift(h)
	s.computeAccelerations()
	s.kick(0.5 * h)
	s.T += h
	s.Steps++
	return s.checkEscape()
}

// Synchronize converts the internal velocity representation to physical
// coordinates. With KeepUnsynchronized set, the internal representation is
// backed up first and restored when stepping resumes, preserving bit-for-bit
// continuation. Synchronizing an already synchronized handle is a no-op.
func (s *Simulation) Synchronize() {
	if s.isSynchronized {
		return
	}
	if s.KeepUnsynchronized {
		s.unsyncVel = make([][3]float64, len(s.Particles))
		for i, p := range s.Particles {
			s.unsyncVel[i] = [3]float64{p.VX, p.VY, p.VZ}
		}
	}
	s.computeAccelerations()
	s.kick(0.5 * s.Dt)
	s.isSynchronized = true
}

func (s *Simulation) computeAccelerations() {
	ps := s.Particles
	for i := range ps {
		ps[i].AX, ps[i].AY, ps[i].AZ = 0, 0, 0
	}
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			dx := ps[j].X - ps[i].X
			dy := ps[j].Y - ps[i].Y
			dz := ps[j].Z - ps[i].Z
			r2 := dx*dx + dy*dy + dz*dz
			if r2 == 0 {
				continue
			}
			inv := 1 / (r2 * math.Sqrt(r2))
			gi := s.G * ps[j].M * inv
			gj := s.G * ps[i].M * inv
			ps[i].AX += gi * dx
			ps[i].AY += gi * dy
			ps[i].AZ += gi * dz
			ps[j].AX -= gj * dx
			ps[j].AY -= gj * dy
			ps[j].AZ -= gj * dz
		}
	}
	if s.AdditionalForces != nil {
		s.AdditionalForces(s)
	}
}

func (s *Simulation) kick(h float64) {
	for i := range s.Particles {
		p := &s.Particles[i]
		p.VX += h * p.AX
		p.VY += h * p.AY
		p.VZ += h * p.AZ
	}
}

func (s *Simulation) drift(h float64) {
	for i := range s.Particles {
		p := &s.Particles[i]
		p.X += h * p.VX
		p.Y += h * p.VY
		p.Z += h * p.VZ
	}
}

func (s *Simulation) checkEscape() error {
	if s.MaxDistance <= 0 {
		return nil
	}
	max2 := s.MaxDistance * s.MaxDistance
	for i, p := range s.Particles {
		r2 := p.X*p.X + p.Y*p.Y + p.Z*p.Z
		if r2 > max2 {
			return &EscapeError{ParticleIndex: i, Distance: math.Sqrt(r2), T: s.T}
		}
	}
	return nil
}

// maybeWriteCheckpoint appends a raw-state record for every interval
// boundary integration has crossed since the last write. Written state is
// not synchronized first: the record must reproduce the live trajectory
// bit-for-bit when reloaded.
func (s *Simulation) maybeWriteCheckpoint() error {
	if s.archive == nil || s.archiveInterval <= 0 {
		return nil
	}
	for s.T >= s.archiveNext-1e-9*s.Dt {
		if err := s.archive.Append(s.record()); err != nil {
			return err
		}
		s.archiveNext += s.archiveInterval
	}
	return nil
}

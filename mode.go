package rebound

import "fmt"

// Mode selects how GetSimulation reconstructs state for a requested time.
type Mode int

const (
	// ModeBlob loads the nearest preceding checkpoint only; the result may
	// lag the requested time by up to one checkpoint interval.
	ModeBlob Mode = iota

	// ModeClose integrates forward from a checkpoint (or reused state) and
	// may overshoot the requested time by at most one timestep.
	ModeClose

	// ModeExact integrates forward to land on the requested time precisely.
	// Exact stepping needs a synchronized integrator at every step, so this
	// mode forces the keep-unsynchronized flag off.
	ModeExact
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeBlob:
		return "blob"
	case ModeClose:
		return "close"
	case ModeExact:
		return "exact"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m == ModeBlob || m == ModeClose || m == ModeExact
}

// ParseMode converts a mode name to its Mode value. Unknown names fail with
// a config error.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "blob":
		return ModeBlob, nil
	case "close":
		return ModeClose, nil
	case "exact":
		return ModeExact, nil
	default:
		return 0, newConfigError(fmt.Sprintf("unknown mode %q, must be one of blob, close, exact", s))
	}
}

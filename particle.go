package rebound

// Particle is one body in a Simulation. Accelerations are scratch space
// refilled by the integrator before every kick; they are not persisted in
// checkpoint records.
type Particle struct {
	M  float64
	X  float64
	Y  float64
	Z  float64
	VX float64
	VY float64
	VZ float64
	AX float64
	AY float64
	AZ float64
}

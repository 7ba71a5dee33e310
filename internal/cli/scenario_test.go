package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `name: kirkwood
g: 1
dt: 0.25
interval: 10
tmax: 40
output: orbit.bin
particles:
  - m: 1
  - m: 0.001
    x: 1
    vy: 1
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, validScenario))
	require.NoError(t, err)

	assert.Equal(t, "kirkwood", sc.Name)
	assert.Equal(t, 0.25, sc.Dt)
	assert.Equal(t, 10.0, sc.Interval)
	assert.Equal(t, 40.0, sc.TMax)
	assert.Equal(t, "orbit.bin", sc.Output)
	require.Len(t, sc.Particles, 2)
	assert.Equal(t, 1.0, sc.Particles[0].M)
	assert.Equal(t, 1.0, sc.Particles[1].X)
	assert.Equal(t, 1.0, sc.Particles[1].VY)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, validScenario+"timestep: 0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestep")
}

func TestLoadScenario_Validation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing name",
			content: "dt: 0.25\ninterval: 10\ntmax: 40\noutput: o.bin\nparticles: [{m: 1}]\n",
			wantErr: "name is required",
		},
		{
			name:    "zero dt",
			content: "name: x\ninterval: 10\ntmax: 40\noutput: o.bin\nparticles: [{m: 1}]\n",
			wantErr: "dt must be positive",
		},
		{
			name:    "negative interval",
			content: "name: x\ndt: 0.25\ninterval: -1\ntmax: 40\noutput: o.bin\nparticles: [{m: 1}]\n",
			wantErr: "interval must be positive",
		},
		{
			name:    "missing output",
			content: "name: x\ndt: 0.25\ninterval: 10\ntmax: 40\nparticles: [{m: 1}]\n",
			wantErr: "output is required",
		},
		{
			name:    "no particles",
			content: "name: x\ndt: 0.25\ninterval: 10\ntmax: 40\noutput: o.bin\n",
			wantErr: "at least one particle",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

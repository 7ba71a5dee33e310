package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/AnnabellaMondino/rebound"
)

// ArchiveSummary is the inspect command's view of an archive header and
// index, rendered as text or JSON.
type ArchiveSummary struct {
	Path      string  `json:"path"`
	RunID     string  `json:"run_id"`
	Particles int     `json:"particles"`
	G         float64 `json:"g"`
	Dt        float64 `json:"dt"`
	Interval  float64 `json:"interval"`
	Nblob     int     `json:"nblob"`
	TMin      float64 `json:"tmin"`
	TMax      float64 `json:"tmax"`
	SizeBytes int64   `json:"size_bytes"`
}

func summarize(sa *rebound.Archive) ArchiveSummary {
	return ArchiveSummary{
		Path:      sa.Path(),
		RunID:     sa.RunID().String(),
		Particles: sa.N(),
		G:         sa.G(),
		Dt:        sa.Dt(),
		Interval:  sa.Interval(),
		Nblob:     sa.Len(),
		TMin:      sa.TMin(),
		TMax:      sa.TMax(),
		SizeBytes: sa.Size(),
	}
}

func renderSummaryText(w io.Writer, s ArchiveSummary) {
	fmt.Fprintf(w, "Archive:   %s\n", s.Path)
	fmt.Fprintf(w, "Run ID:    %s\n", s.RunID)
	fmt.Fprintf(w, "Particles: %d\n", s.Particles)
	fmt.Fprintf(w, "G:         %g\n", s.G)
	fmt.Fprintf(w, "Timestep:  %g\n", s.Dt)
	fmt.Fprintf(w, "Interval:  %g\n", s.Interval)
	fmt.Fprintf(w, "Blobs:     %d\n", s.Nblob)
	fmt.Fprintf(w, "Time span: [%g, %g]\n", s.TMin, s.TMax)
	fmt.Fprintf(w, "Size:      %d bytes\n", s.SizeBytes)
}

// SnapshotView is the snapshot command's rendering of a reconstructed state.
type SnapshotView struct {
	Path      string         `json:"path"`
	Time      float64        `json:"time"`
	Mode      string         `json:"mode"`
	Steps     uint64         `json:"steps"`
	Particles []ParticleView `json:"particles"`
}

// ParticleView is one particle's physical coordinates.
type ParticleView struct {
	M  float64 `json:"m"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
	VZ float64 `json:"vz"`
}

func snapshotView(path string, mode rebound.Mode, sim *rebound.Simulation) SnapshotView {
	v := SnapshotView{
		Path:      path,
		Time:      sim.T,
		Mode:      mode.String(),
		Steps:     sim.Steps,
		Particles: make([]ParticleView, len(sim.Particles)),
	}
	for i, p := range sim.Particles {
		v.Particles[i] = ParticleView{M: p.M, X: p.X, Y: p.Y, Z: p.Z, VX: p.VX, VY: p.VY, VZ: p.VZ}
	}
	return v
}

func renderSnapshotText(w io.Writer, v SnapshotView) {
	fmt.Fprintf(w, "Archive: %s\n", v.Path)
	fmt.Fprintf(w, "Time:    %g (mode %s, %d steps)\n", v.Time, v.Mode, v.Steps)
	fmt.Fprintf(w, "  #             m             x             y             z            vx            vy            vz\n")
	for i, p := range v.Particles {
		fmt.Fprintf(w, "%3d %13.6e %13.6e %13.6e %13.6e %13.6e %13.6e %13.6e\n",
			i, p.M, p.X, p.Y, p.Z, p.VX, p.VY, p.VZ)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

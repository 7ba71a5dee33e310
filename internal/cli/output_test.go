package cli

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func testSummary() ArchiveSummary {
	return ArchiveSummary{
		Path:      "testdata/orbit.bin",
		RunID:     "0198f1e2-0000-7000-8000-000000000001",
		Particles: 2,
		G:         1,
		Dt:        0.25,
		Interval:  10,
		Nblob:     5,
		TMin:      0,
		TMax:      60,
		SizeBytes: 880,
	}
}

func testSnapshot() SnapshotView {
	return SnapshotView{
		Path:  "testdata/orbit.bin",
		Time:  20,
		Mode:  "blob",
		Steps: 80,
		Particles: []ParticleView{
			{M: 1, X: -0.001, VY: -0.001},
			{M: 0.001, X: 1, Y: 0.25, VX: -0.5, VY: 1},
		},
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRenderSummaryText(t *testing.T) {
	buf := &bytes.Buffer{}
	renderSummaryText(buf, testSummary())
	newGoldie(t).Assert(t, "summary_text", buf.Bytes())
}

func TestRenderSummaryJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, renderJSON(buf, testSummary()))
	newGoldie(t).Assert(t, "summary_json", buf.Bytes())
}

func TestRenderSnapshotText(t *testing.T) {
	buf := &bytes.Buffer{}
	renderSnapshotText(buf, testSnapshot())
	newGoldie(t).Assert(t, "snapshot_text", buf.Bytes())
}

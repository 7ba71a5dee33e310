package binfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader(n uint32) Header {
	return Header{
		RunID:    [16]byte{1, 2, 3, 4},
		N:        n,
		G:        1,
		Dt:       0.25,
		Interval: 10,
	}
}

func testRecord(t float64, n int) Record {
	rec := Record{
		T:            t,
		Dt:           0.25,
		Walltime:     t * 0.01,
		Steps:        uint64(t * 4),
		Synchronized: t == 0,
		Particles:    make([]ParticleState, n),
	}
	for i := range rec.Particles {
		rec.Particles[i] = ParticleState{M: 1, X: float64(i), VY: t}
	}
	return rec
}

func writeTestArchive(t *testing.T, nrec int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.bin")
	w, err := Create(path, testHeader(2), testRecord(0, 2))
	require.NoError(t, err)
	for i := 1; i < nrec; i++ {
		require.NoError(t, w.Append(testRecord(float64(i)*10, 2)))
	}
	require.NoError(t, w.Close())
	return path
}

func TestCreateOpen_RoundTrip(t *testing.T) {
	path := writeTestArchive(t, 3)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, Warnings(0), r.Warnings())
	assert.Equal(t, int64(3), r.NumRecords())

	h := r.Header()
	assert.Equal(t, Version, h.Version)
	assert.Equal(t, uint32(2), h.N)
	assert.Equal(t, 0.25, h.Dt)
	assert.Equal(t, 10.0, h.Interval)
	assert.Equal(t, uint64(HeaderSize), h.SeekFirst)
	assert.Equal(t, uint64(RecordSize(2)), h.SeekBlob)
	assert.Equal(t, int64(HeaderSize+3*RecordSize(2)), r.Size())

	rec, status := r.ReadRecord(1)
	require.Equal(t, StatusOK, status)
	assert.Equal(t, testRecord(10, 2), rec)
}

func TestCreate_ParticleCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	_, err := Create(path, testHeader(2), testRecord(0, 3))
	require.Error(t, err)
}

func TestOpen_ShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, os.WriteFile(path, []byte("SIMARCH"), 0o644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.Warnings().Fatal())

	_, status := r.ReadRecord(0)
	assert.Equal(t, StatusTruncated, status)
}

func TestOpen_BadMagic(t *testing.T) {
	path := writeTestArchive(t, 2)
	corruptByte(t, path, 0)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.Warnings().Fatal())
}

func TestOpen_TrailingPartialRecord(t *testing.T) {
	path := writeTestArchive(t, 2)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	require.NoError(t, err)
	_, err = f.Write(make([]byte, 17))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.False(t, r.Warnings().Fatal())
	assert.NotZero(t, r.Warnings()&WarnTrailing)
	assert.Equal(t, int64(2), r.NumRecords())

	// Complete records stay readable.
	_, status := r.ReadRecord(1)
	assert.Equal(t, StatusOK, status)
}

func TestReadRecord_ChecksumFailure(t *testing.T) {
	path := writeTestArchive(t, 2)
	// Flip a byte inside record 1's payload.
	corruptByte(t, path, int64(HeaderSize+RecordSize(2)+recordCRCSize+3))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, status := r.ReadRecord(1)
	assert.Equal(t, StatusChecksum, status)

	// Record 0 is untouched.
	_, status = r.ReadRecord(0)
	assert.Equal(t, StatusOK, status)
}

func TestReadRecord_OutOfRange(t *testing.T) {
	path := writeTestArchive(t, 2)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, status := r.ReadRecord(-1)
	assert.Equal(t, StatusOutOfRange, status)
	_, status = r.ReadRecord(2)
	assert.Equal(t, StatusOutOfRange, status)
}

func TestRecordSize(t *testing.T) {
	assert.Equal(t, 40, PayloadSize(0))
	assert.Equal(t, 44, RecordSize(0))
	assert.Equal(t, 44+2*56, RecordSize(2))
}

func corruptByte(t *testing.T, path string, off int64) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	defer f.Close()
	buf := make([]byte, 1)
	_, err = f.ReadAt(buf, off)
	require.NoError(t, err)
	buf[0] ^= 0xff
	_, err = f.WriteAt(buf, off)
	require.NoError(t, err)
}

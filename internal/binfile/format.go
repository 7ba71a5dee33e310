package binfile

import (
	"encoding/binary"
	"hash/crc32"
	"math"
)

// Magic identifies a simulation archive file. The trailing NUL pads the
// magic to 8 bytes so every later field stays 4-byte aligned.
const Magic = "SIMARCH\x00"

// Version is the current format version. Readers accept files with the same
// major layout and a newer minor version, flagging WarnVersion.
const Version uint32 = 1

// HeaderSize is the fixed byte size of the file header. It doubles as the
// offset of record 0 (seekFirst).
const HeaderSize = 80

// Header describes the archive file and the fixed-stride record region that
// follows it. SeekFirst and SeekBlob are stored explicitly so a reader never
// has to re-derive the layout from the version number.
type Header struct {
	Version   uint32
	RunID     [16]byte
	N         uint32
	G         float64
	Dt        float64
	Interval  float64
	SeekFirst uint64
	SeekBlob  uint64
}

// ParticleState is the per-particle slice of a checkpoint record.
type ParticleState struct {
	M  float64
	X  float64
	Y  float64
	Z  float64
	VX float64
	VY float64
	VZ float64
}

// Record is one decoded checkpoint. Velocities are stored in whatever
// representation the integrator held at write time; Synchronized records
// whether that representation is physical or the fast internal one.
type Record struct {
	T            float64
	Dt           float64
	Walltime     float64
	Steps        uint64
	Synchronized bool
	Particles    []ParticleState
}

// Warnings is the bitmask reported when reconstructing state from a file.
// Bit 0 is fatal; all other bits are advisory.
type Warnings uint32

const (
	// WarnFatal means the file cannot be interpreted as an archive at all:
	// bad magic, short header, or a zero record stride.
	WarnFatal Warnings = 1 << 0

	// WarnVersion means the file was written by a newer minor version.
	// The fixed fields decoded here are still valid.
	WarnVersion Warnings = 1 << 1

	// WarnTrailing means the file ends mid-record, typically because the
	// producing process was killed during a write. The partial record is
	// excluded from the record count.
	WarnTrailing Warnings = 1 << 2
)

// Fatal reports whether the file is unusable.
func (w Warnings) Fatal() bool { return w&WarnFatal != 0 }

// Record load status codes, returned as plain integers so callers can carry
// them verbatim in their own error types.
const (
	StatusOK            = 0
	StatusOutOfRange    = 1
	StatusTruncated     = 2
	StatusChecksum      = 3
	StatusParticleCount = 4
)

const (
	recordCRCSize    = 4
	recordFixedSize  = 40 // t, dt, walltime: 3*8; steps: 8; flags+reserved: 8
	particleSize     = 56 // 7 float64 fields
	flagSynchronized = 1 << 0
)

// PayloadSize returns the CRC-excluded byte size of a record holding n
// particles.
func PayloadSize(n int) int {
	return recordFixedSize + n*particleSize
}

// RecordSize returns the full on-disk stride of a record holding n
// particles, including its CRC.
func RecordSize(n int) int {
	return recordCRCSize + PayloadSize(n)
}

func encodeHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:8], Magic)
	le := binary.LittleEndian
	le.PutUint32(buf[8:12], h.Version)
	le.PutUint32(buf[12:16], 0) // reserved
	copy(buf[16:32], h.RunID[:])
	le.PutUint32(buf[32:36], h.N)
	le.PutUint32(buf[36:40], 0) // reserved
	le.PutUint64(buf[40:48], math.Float64bits(h.G))
	le.PutUint64(buf[48:56], math.Float64bits(h.Dt))
	le.PutUint64(buf[56:64], math.Float64bits(h.Interval))
	le.PutUint64(buf[64:72], h.SeekFirst)
	le.PutUint64(buf[72:80], h.SeekBlob)
	return buf
}

func decodeHeader(buf []byte) Header {
	le := binary.LittleEndian
	var h Header
	h.Version = le.Uint32(buf[8:12])
	copy(h.RunID[:], buf[16:32])
	h.N = le.Uint32(buf[32:36])
	h.G = math.Float64frombits(le.Uint64(buf[40:48]))
	h.Dt = math.Float64frombits(le.Uint64(buf[48:56]))
	h.Interval = math.Float64frombits(le.Uint64(buf[56:64]))
	h.SeekFirst = le.Uint64(buf[64:72])
	h.SeekBlob = le.Uint64(buf[72:80])
	return h
}

// encodeRecord lays out a record as crc32(payload) followed by the payload.
func encodeRecord(rec Record) []byte {
	n := len(rec.Particles)
	buf := make([]byte, RecordSize(n))
	payload := buf[recordCRCSize:]
	le := binary.LittleEndian

	le.PutUint64(payload[0:8], math.Float64bits(rec.T))
	le.PutUint64(payload[8:16], math.Float64bits(rec.Dt))
	le.PutUint64(payload[16:24], math.Float64bits(rec.Walltime))
	le.PutUint64(payload[24:32], rec.Steps)
	var flags uint32
	if rec.Synchronized {
		flags |= flagSynchronized
	}
	le.PutUint32(payload[32:36], flags)
	le.PutUint32(payload[36:40], 0) // reserved

	off := recordFixedSize
	for _, p := range rec.Particles {
		le.PutUint64(payload[off+0:off+8], math.Float64bits(p.M))
		le.PutUint64(payload[off+8:off+16], math.Float64bits(p.X))
		le.PutUint64(payload[off+16:off+24], math.Float64bits(p.Y))
		le.PutUint64(payload[off+24:off+32], math.Float64bits(p.Z))
		le.PutUint64(payload[off+32:off+40], math.Float64bits(p.VX))
		le.PutUint64(payload[off+40:off+48], math.Float64bits(p.VY))
		le.PutUint64(payload[off+48:off+56], math.Float64bits(p.VZ))
		off += particleSize
	}

	le.PutUint32(buf[0:4], crc32.ChecksumIEEE(payload))
	return buf
}

// decodeRecord decodes a full record slice (CRC included) for n particles.
// Returns StatusChecksum if the stored CRC does not match the payload.
func decodeRecord(buf []byte, n int) (Record, int) {
	le := binary.LittleEndian
	payload := buf[recordCRCSize:]
	if le.Uint32(buf[0:4]) != crc32.ChecksumIEEE(payload) {
		return Record{}, StatusChecksum
	}

	rec := Record{
		T:            math.Float64frombits(le.Uint64(payload[0:8])),
		Dt:           math.Float64frombits(le.Uint64(payload[8:16])),
		Walltime:     math.Float64frombits(le.Uint64(payload[16:24])),
		Steps:        le.Uint64(payload[24:32]),
		Synchronized: le.Uint32(payload[32:36])&flagSynchronized != 0,
		Particles:    make([]ParticleState, n),
	}
	off := recordFixedSize
	for i := range rec.Particles {
		p := &rec.Particles[i]
		p.M = math.Float64frombits(le.Uint64(payload[off+0 : off+8]))
		p.X = math.Float64frombits(le.Uint64(payload[off+8 : off+16]))
		p.Y = math.Float64frombits(le.Uint64(payload[off+16 : off+24]))
		p.Z = math.Float64frombits(le.Uint64(payload[off+24 : off+32]))
		p.VX = math.Float64frombits(le.Uint64(payload[off+32 : off+40]))
		p.VY = math.Float64frombits(le.Uint64(payload[off+40 : off+48]))
		p.VZ = math.Float64frombits(le.Uint64(payload[off+48 : off+56]))
		off += particleSize
	}
	return rec, StatusOK
}

package binfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Reader provides random access to the records of an archive file.
//
// The whole file is memory-mapped read-only at open time; record loads are
// plain slice arithmetic with bounds checks. The backing file is never
// written through a Reader.
type Reader struct {
	f        *os.File
	data     []byte
	size     int64
	header   Header
	warnings Warnings
	nrec     int64
}

// Open maps the file at path and decodes its header.
//
// I/O failures (missing file, mmap failure) are returned as errors. Format
// problems are reported through Warnings instead: callers are expected to
// check Warnings().Fatal() before trusting the header, mirroring how the
// producing engine reports reconstruction warnings as a bitmask.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("binfile: open %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("binfile: stat %s: %w", path, err)
	}
	size := st.Size()

	r := &Reader{f: f, size: size}
	if size < HeaderSize {
		r.warnings |= WarnFatal
		return r, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("binfile: mmap %s: %w", path, err)
	}
	r.data = data

	if string(data[0:8]) != Magic {
		r.warnings |= WarnFatal
		return r, nil
	}
	h := decodeHeader(data[:HeaderSize])
	if h.Version > Version {
		r.warnings |= WarnVersion
	}
	if h.SeekBlob == 0 || h.SeekFirst < HeaderSize ||
		h.SeekBlob != uint64(RecordSize(int(h.N))) {
		r.warnings |= WarnFatal
		return r, nil
	}
	r.header = h

	tail := size - int64(h.SeekFirst)
	if tail < 0 {
		tail = 0
	}
	r.nrec = tail / int64(h.SeekBlob)
	if tail%int64(h.SeekBlob) != 0 {
		r.warnings |= WarnTrailing
	}
	return r, nil
}

// Header returns the decoded file header. Only valid when the fatal warning
// bit is clear.
func (r *Reader) Header() Header { return r.header }

// Warnings returns the reconstruction warning bitmask for the file.
func (r *Reader) Warnings() Warnings { return r.warnings }

// Size returns the file size in bytes.
func (r *Reader) Size() int64 { return r.size }

// NumRecords returns the number of complete records in the file.
func (r *Reader) NumRecords() int64 { return r.nrec }

// ReadRecord decodes record i. The returned status is StatusOK on success
// and one of the nonzero Status* codes otherwise; the Record is only valid
// for StatusOK.
func (r *Reader) ReadRecord(i int64) (Record, int) {
	if r.warnings.Fatal() {
		return Record{}, StatusTruncated
	}
	if i < 0 || i >= r.nrec {
		return Record{}, StatusOutOfRange
	}
	off := int64(r.header.SeekFirst) + i*int64(r.header.SeekBlob)
	end := off + int64(r.header.SeekBlob)
	if end > r.size {
		return Record{}, StatusTruncated
	}
	return decodeRecord(r.data[off:end], int(r.header.N))
}

// Close unmaps the file and releases the descriptor. Safe to call once.
func (r *Reader) Close() error {
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			return fmt.Errorf("binfile: munmap: %w", err)
		}
		r.data = nil
	}
	if r.f != nil {
		err := r.f.Close()
		r.f = nil
		return err
	}
	return nil
}

package binfile

import (
	"fmt"
	"os"
)

// Writer appends checkpoint records to an archive file.
//
// The writer is strictly sequential: Create lays down the header and the
// initial record, Append adds one record per call. There is no rewrite path;
// a record, once written, is immutable.
type Writer struct {
	f *os.File
	h Header
}

// Create writes a new archive at path containing the header and the initial
// t=0 record. An existing file at path is truncated.
func Create(path string, h Header, initial Record) (*Writer, error) {
	if len(initial.Particles) != int(h.N) {
		return nil, fmt.Errorf("binfile: initial record has %d particles, header says %d",
			len(initial.Particles), h.N)
	}
	h.Version = Version
	h.SeekFirst = HeaderSize
	h.SeekBlob = uint64(RecordSize(int(h.N)))

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("binfile: create %s: %w", path, err)
	}
	w := &Writer{f: f, h: h}
	if _, err := f.Write(encodeHeader(h)); err != nil {
		f.Close()
		return nil, fmt.Errorf("binfile: write header: %w", err)
	}
	if err := w.Append(initial); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Header returns the header the writer was created with, with SeekFirst and
// SeekBlob filled in.
func (w *Writer) Header() Header { return w.h }

// Append writes one record at the end of the file.
func (w *Writer) Append(rec Record) error {
	if len(rec.Particles) != int(w.h.N) {
		return fmt.Errorf("binfile: record has %d particles, header says %d",
			len(rec.Particles), w.h.N)
	}
	if _, err := w.f.Write(encodeRecord(rec)); err != nil {
		return fmt.Errorf("binfile: append record: %w", err)
	}
	return nil
}

// Sync flushes written records to stable storage.
func (w *Writer) Sync() error {
	return w.f.Sync()
}

// Close syncs and closes the file.
func (w *Writer) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Sync()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	w.f = nil
	return err
}

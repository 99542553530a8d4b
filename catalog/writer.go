package catalog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// FileHeader is written at the start of every light-cone catalogue.
type FileHeader struct {
	RunID   string    `msgpack:"run_id"`
	Created time.Time `msgpack:"created"`
	Count   int64     `msgpack:"count"`
	Mask    Mask      `msgpack:"mask"`

	OmegaM   float64   `msgpack:"omega_m"`
	OmegaL   float64   `msgpack:"omega_l"`
	BoxSize  float64   `msgpack:"box_size"`
	FOV      float64   `msgpack:"fov"`
	Tiles    [3]int    `msgpack:"tiles"`
	GLMatrix []float64 `msgpack:"gl_matrix"`
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string { return uuid.NewString() }

// Write writes the records of s to w as a zstd stream: a msgpack-encoded
// header followed by each carried column in Mask bit order, little-endian.
// hd.Count and hd.Mask are filled in from s.
func Write(w io.Writer, hd FileHeader, s *Store) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	hd.Count = int64(s.Len())
	hd.Mask = s.Mask()
	if hd.RunID == "" {
		hd.RunID = NewRunID()
	}

	if err := msgpack.NewEncoder(zw).Encode(&hd); err != nil {
		zw.Close()
		return fmt.Errorf("encoding catalog header: %w", err)
	}

	for _, col := range columns(s) {
		if err := binary.Write(zw, binary.LittleEndian, col); err != nil {
			zw.Close()
			return fmt.Errorf("writing catalog column: %w", err)
		}
	}
	return zw.Close()
}

// WriteFile writes s to the named file. See Write.
func WriteFile(fname string, hd FileHeader, s *Store) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := Write(f, hd, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read reads a catalogue written by Write into a new Store whose capacity
// equals the number of records.
func Read(r io.Reader) (*FileHeader, *Store, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer zr.Close()
	br := bufio.NewReader(zr)

	hd := &FileHeader{}
	if err := msgpack.NewDecoder(br).Decode(hd); err != nil {
		return nil, nil, fmt.Errorf("decoding catalog header: %w", err)
	}
	if hd.Count < 0 {
		return nil, nil, fmt.Errorf("catalog header has negative count %d", hd.Count)
	}

	s := NewStore(int(hd.Count), hd.Mask)
	s.n = int(hd.Count)
	for _, col := range columns(s) {
		if err := binary.Read(br, binary.LittleEndian, col); err != nil {
			return nil, nil, fmt.Errorf("reading catalog column: %w", err)
		}
	}
	return hd, s, nil
}

// ReadFile reads the named catalogue. See Read.
func ReadFile(fname string) (*FileHeader, *Store, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Read(f)
}

// columns returns the carried columns of s in Mask bit order.
func columns(s *Store) []interface{} {
	cols := []interface{}{}
	if s.x != nil {
		cols = append(cols, s.x[:s.n])
	}
	if s.v != nil {
		cols = append(cols, s.v[:s.n])
	}
	if s.id != nil {
		cols = append(cols, s.id[:s.n])
	}
	if s.aEmit != nil {
		cols = append(cols, s.aEmit[:s.n])
	}
	if s.potential != nil {
		cols = append(cols, s.potential[:s.n])
	}
	if s.tidal != nil {
		cols = append(cols, s.tidal[:s.n])
	}
	if s.q != nil {
		cols = append(cols, s.q[:s.n])
	}
	if s.source != nil {
		cols = append(cols, s.source[:s.n])
	}
	return cols
}

package catalog

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Header describes meta-information about a particle snapshot.
type Header struct {
	Cosmo CosmologyHeader

	Mass       float64 // Mass of one particle
	Count      int64   // Number of particles in the file
	TotalCount int64   // Number of particles in all files
	TotalWidth float64 // Width of the sim's bounding box
	Scale      float64 // Scale factor of the snapshot
}

// CosmologyHeader contains information describing the cosmological
// context in which the simulation was run.
type CosmologyHeader struct {
	Z      float64
	OmegaM float64
	OmegaL float64
	H100   float64
}

// gadgetHeader is the formatting for meta-information used by Gadget 2.
type gadgetHeader struct {
	NPart                                     [6]uint32
	Mass                                      [6]float64
	Time, Redshift                            float64
	FlagSfr, FlagFeedback                     int32
	NPartTotal                                [6]uint32
	FlagCooling, NumFiles                     int32
	BoxSize, Omega0, OmegaLambda, HubbleParam float64
	FlagStellarAge, HashTabSize               int32

	Padding [88]byte
}

// standardize returns a Header that corresponds to the source Gadget 2
// header. LGadget-2 stores the high word of the dark matter count in the
// gas slot.
func (gh *gadgetHeader) standardize() *Header {
	h := &Header{}

	h.Count = int64(gh.NPart[1]) + int64(gh.NPart[0])<<32
	h.TotalCount = int64(gh.NPartTotal[1]) + int64(gh.NPartTotal[0])<<32
	h.Mass = gh.Mass[1]
	h.TotalWidth = gh.BoxSize
	h.Scale = gh.Time

	h.Cosmo.Z = gh.Redshift
	h.Cosmo.OmegaM = gh.Omega0
	h.Cosmo.OmegaL = gh.OmegaLambda
	h.Cosmo.H100 = gh.HubbleParam

	return h
}

// wrapDistance takes a value and interprets it as a position defined within
// a periodic domain of width h.BoxSize.
func (gh *gadgetHeader) wrapDistance(x float64) float64 {
	if x < 0 {
		return x + gh.BoxSize
	} else if x >= gh.BoxSize {
		return x - gh.BoxSize
	}
	return x
}

// readBlock reads one Fortran-style record, checking that the leading and
// trailing length markers agree with the size of data.
func readBlock(r io.Reader, order binary.ByteOrder, data interface{}) error {
	var head, tail int32
	if err := binary.Read(r, order, &head); err != nil {
		return err
	}
	if err := binary.Read(r, order, data); err != nil {
		return err
	}
	if err := binary.Read(r, order, &tail); err != nil {
		return err
	}
	if head != tail {
		return fmt.Errorf(
			"Gadget block markers disagree: %d at start, %d at end.", head, tail,
		)
	} else if size := binary.Size(data); size >= 0 && int(head) != size {
		return fmt.Errorf(
			"Gadget block has size %d, but %d bytes were expected.", head, size,
		)
	}
	return nil
}

// ReadGadgetHeader reads the header of a Gadget 2 snapshot file.
func ReadGadgetHeader(path string, order binary.ByteOrder) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gh := &gadgetHeader{}
	if err := readBlock(f, order, gh); err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	return gh.standardize(), nil
}

// ReadGadget reads the particles of a Gadget 2 snapshot file into a new Store
// with Position, Velocity and ID columns and room for capacity particles.
// Velocities are converted from Gadget's internal units to peculiar
// velocities by multiplying by sqrt(a).
func ReadGadget(
	path string, order binary.ByteOrder, capacity int,
) (*Header, *Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	gh := &gadgetHeader{}
	if err := readBlock(f, order, gh); err != nil {
		return nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	h := gh.standardize()

	if int64(capacity) < h.Count {
		return nil, nil, fmt.Errorf(
			"%w: %s holds %d particles, but capacity is %d",
			ErrCapacityExceeded, path, h.Count, capacity,
		)
	}

	xs := make([][3]float32, h.Count)
	vs := make([][3]float32, h.Count)
	ids := make([]int64, h.Count)

	if err := readBlock(f, order, xs); err != nil {
		return nil, nil, fmt.Errorf("reading positions of %s: %w", path, err)
	}
	if err := readBlock(f, order, vs); err != nil {
		return nil, nil, fmt.Errorf("reading velocities of %s: %w", path, err)
	}
	if err := readBlock(f, order, ids); err != nil {
		return nil, nil, fmt.Errorf("reading IDs of %s: %w", path, err)
	}

	s := NewStore(capacity, Position|Velocity|ID)
	rootA := float32(math.Sqrt(gh.Time))
	r := &Record{}
	for i := range xs {
		for d := 0; d < 3; d++ {
			r.X[d] = gh.wrapDistance(float64(xs[i][d]))
			r.V[d] = vs[i][d] * rootA
		}
		r.ID = ids[i]
		if _, err := s.Append(r); err != nil {
			return nil, nil, err
		}
	}

	return h, s, nil
}

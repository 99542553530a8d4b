package catalog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBlock(t *testing.T, f *os.File, data interface{}) {
	size := int32(binary.Size(data))
	require.NoError(t, binary.Write(f, binary.LittleEndian, size))
	require.NoError(t, binary.Write(f, binary.LittleEndian, data))
	require.NoError(t, binary.Write(f, binary.LittleEndian, size))
}

func writeGadget(t *testing.T, path string) {
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gh := gadgetHeader{}
	gh.NPart[1], gh.NPartTotal[1] = 2, 2
	gh.Mass[1] = 1.5
	gh.Time, gh.Redshift = 0.25, 3
	gh.BoxSize, gh.Omega0, gh.OmegaLambda, gh.HubbleParam = 100, 0.3, 0.7, 0.7

	writeBlock(t, f, &gh)
	writeBlock(t, f, [][3]float32{{1, 2, 3}, {-1, 50, 100}})
	writeBlock(t, f, [][3]float32{{2, 4, 6}, {0, 0, 2}})
	writeBlock(t, f, []int64{10, 11})
}

func TestReadGadget(t *testing.T) {
	assert.Equal(t, 256, binary.Size(gadgetHeader{}))

	path := filepath.Join(t.TempDir(), "snap.0")
	writeGadget(t, path)

	h, err := ReadGadgetHeader(path, binary.LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, int64(2), h.Count)
	assert.Equal(t, 100.0, h.TotalWidth)
	assert.Equal(t, 0.3, h.Cosmo.OmegaM)
	assert.Equal(t, 0.25, h.Scale)

	_, s, err := ReadGadget(path, binary.LittleEndian, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 4, s.Cap())
	assert.Equal(t, [3]float64{1, 2, 3}, s.X()[0])
	assert.Equal(t, [3]float64{99, 50, 0}, s.X()[1], "positions are wrapped")
	assert.Equal(t, [3]float32{1, 2, 3}, s.V()[0], "velocities scaled by sqrt(a)")
	assert.Equal(t, []int64{10, 11}, s.IDs())

	_, _, err = ReadGadget(path, binary.LittleEndian, 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestReadGadgetMissing(t *testing.T) {
	_, _, err := ReadGadget(filepath.Join(t.TempDir(), "nope"), binary.LittleEndian, 1)
	assert.Error(t, err)
}

package catalog

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	s := NewStore(4, Position|AEmit|Potential|Tidal|Source)
	for i := 0; i < 3; i++ {
		_, err := s.Append(&Record{
			X:         [3]float64{float64(i), 2 * float64(i), -1},
			AEmit:     0.5 + 0.1*float64(i),
			Potential: -float64(i),
			Tidal:     [6]float64{1, 2, 3, 4, 5, float64(i)},
			Source:    10 + i,
		})
		require.NoError(t, err)
	}

	hd := FileHeader{
		Created:  time.Unix(1700000000, 0).UTC(),
		OmegaM:   0.3,
		OmegaL:   0.7,
		BoxSize:  100,
		FOV:      360,
		Tiles:    [3]int{1, 2, 3},
		GLMatrix: []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
	}

	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, hd, s))

	rhd, rs, err := Read(buf)
	require.NoError(t, err)

	_, err = uuid.Parse(rhd.RunID)
	assert.NoError(t, err, "a run ID is generated when none is given")
	assert.Equal(t, int64(3), rhd.Count)
	assert.Equal(t, s.Mask(), rhd.Mask)
	assert.Equal(t, hd.Tiles, rhd.Tiles)
	assert.Equal(t, hd.GLMatrix, rhd.GLMatrix)
	assert.True(t, hd.Created.Equal(rhd.Created))

	require.Equal(t, 3, rs.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, s.Record(i), rs.Record(i), "record %d", i)
	}
}

func TestWriteReadFile(t *testing.T) {
	s := NewStore(2, Position|Velocity|ID)
	_, err := s.Append(&Record{X: [3]float64{1, 2, 3}, V: [3]float32{4, 5, 6}, ID: 7})
	require.NoError(t, err)

	fname := filepath.Join(t.TempDir(), "lc.zst")
	require.NoError(t, WriteFile(fname, FileHeader{RunID: "run"}, s))

	hd, rs, err := ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "run", hd.RunID)
	assert.Equal(t, s.Record(0), rs.Record(0))
}

func TestWriteReadEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, FileHeader{}, NewStore(0, Position|Potential)))
	hd, rs, err := Read(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(0), hd.Count)
	assert.Equal(t, 0, rs.Len())
}

func TestReadGarbage(t *testing.T) {
	_, _, err := Read(bytes.NewBufferString("not a catalogue"))
	assert.Error(t, err)
}

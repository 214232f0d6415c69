package sink_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/sink"
)

func sampleChunk() *chunk.Chunk {
	return &chunk.Chunk{
		Len: 2,
		Fields: map[string]chunk.Array{
			"variants/POS": {
				Name: "variants/POS", Dtype: chunk.Int32, Length: 2, Number: 1, ItemSize: 4,
				Data: []int32{100, 200},
			},
			"variants/QUAL": {
				Name: "variants/QUAL", Dtype: chunk.Float32, Length: 2, Number: 1, ItemSize: 4,
				Data: []float32{30.5, -1},
			},
			"variants/FILTER_PASS": {
				Name: "variants/FILTER_PASS", Dtype: chunk.Bool, Length: 2, Number: 1, ItemSize: 1,
				Data: []bool{true, false},
			},
		},
	}
}

func TestArrowWriteBuildsOneRecordPerChunk(t *testing.T) {
	a, err := sink.NewArrow("")
	require.NoError(t, err)

	require.NoError(t, a.Write(sampleChunk()))
	require.Len(t, a.Records(), 1)
	require.EqualValues(t, 2, a.Records()[0].NumRows())
	require.NoError(t, a.Close())
}

func TestArrowWriteStreamsToIPCFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.arrow")
	a, err := sink.NewArrow(path)
	require.NoError(t, err)

	require.NoError(t, a.Write(sampleChunk()))
	require.NoError(t, a.Write(sampleChunk()))
	require.Len(t, a.Records(), 2)
	require.NoError(t, a.Close())
}

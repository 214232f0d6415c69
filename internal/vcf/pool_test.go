package vcf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
	"github.com/inodb/vcfx/internal/vcf/calldata"
	"github.com/inodb/vcfx/internal/vcf/field"
	"github.com/inodb/vcfx/internal/vcf/filter"
	"github.com/inodb/vcfx/internal/vcf/info"
)

func poolDriverConfig(chunkLength int) vcf.DriverConfig {
	return vcf.DriverConfig{
		Options: vcf.Options{ChunkLength: chunkLength, Ploidy: 2, NSamples: 2},
		Chrom:   field.NewFixedString("variants/CHROM", 8, chunkLength),
		Pos:     field.NewPos(chunkLength),
		ID:      field.NewFixedString("variants/ID", 8, chunkLength),
		Ref:     field.NewFixedString("variants/REF", 8, chunkLength),
		Alt:     field.NewAlt(3, 8, chunkLength),
		Qual:    field.NewQual(chunkLength),
		Filter:  filter.New([]string{"PASS"}, chunkLength),
		Info: info.New(map[string]vcf.InfoSubParser{
			"DP": info.NewNumericSubParser[int32]("variants/DP", 1, chunkLength, -1),
		}),
		Calldata: calldata.New(map[string]vcf.CalldataSubParser{
			"GT": calldata.NewGenotypeSubParser[int32]("calldata/GT", 2, chunkLength, 2),
		}),
	}
}

func TestDriverPoolReassemblesChunksInRangeOrder(t *testing.T) {
	var buf bytes.Buffer
	for i := 1; i <= 6; i++ {
		buf.WriteString("1\t")
		buf.WriteString([]string{"1", "2", "3", "4", "5", "6"}[i-1])
		buf.WriteString("\trs\tA\tG\t30\tPASS\tDP=1\tGT\t0/1\t0/1\n")
	}
	data := buf.Bytes()
	ra := bytes.NewReader(data)

	pool := vcf.NewDriverPool(ra, int64(len(data)), 3, func(int) vcf.DriverConfig {
		return poolDriverConfig(10)
	})

	out, errc := pool.Run(context.Background())

	var positions []int32
	for c := range out {
		pos, ok := c.Get("variants/POS")
		if !ok {
			t.Fatal("missing variants/POS in merged chunk")
		}
		positions = append(positions, pos.Data.([]int32)[:c.Len]...)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []int32{1, 2, 3, 4, 5, 6}
	if len(positions) != len(want) {
		t.Fatalf("got %d positions, want %d: %v", len(positions), len(want), positions)
	}
	for i := range want {
		if positions[i] != want[i] {
			t.Fatalf("positions = %v, want monotonically increasing %v (range order must be preserved)", positions, want)
		}
	}
}

func TestDriverPoolSingleWorkerMatchesSingleDriver(t *testing.T) {
	text := "1\t100\trs1\tA\tG\t30\tPASS\tDP=1\tGT\t0/1\n"
	ra := bytes.NewReader([]byte(text))

	pool := vcf.NewDriverPool(ra, int64(len(text)), 1, func(int) vcf.DriverConfig {
		return poolDriverConfig(10)
	})

	out, errc := pool.Run(context.Background())

	var chunks []*chunk.Chunk
	for c := range out {
		chunks = append(chunks, c)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Len != 1 {
		t.Fatalf("expected a single 1-record chunk, got %+v", chunks)
	}
}

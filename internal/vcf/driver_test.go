package vcf_test

import (
	"context"
	"strings"
	"testing"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
	"github.com/inodb/vcfx/internal/vcf/calldata"
	"github.com/inodb/vcfx/internal/vcf/field"
	"github.com/inodb/vcfx/internal/vcf/filter"
	"github.com/inodb/vcfx/internal/vcf/info"
)

const twoVariantVCF = "1\t100\trs1\tA\tG,T\t30.5\tPASS\tDP=10;AF=0.5,0.25\tGT:DP\t0/1:8\t1|1:12\n" +
	"2\t200\t.\tAC\tA\t.\t.\t.\tGT:DP\t0/0:5\t./.:3\n"

func newTestDriver(t *testing.T, text string, chunkLength int) *vcf.Driver {
	t.Helper()

	src := vcf.NewByteSource(vcf.ReaderFiller{R: strings.NewReader(text)}, 64)
	opts := vcf.Options{ChunkLength: chunkLength, Ploidy: 2, NSamples: 2}

	cfg := vcf.DriverConfig{
		Options: opts,
		Chrom:   field.NewFixedString("variants/CHROM", 8, chunkLength),
		Pos:     field.NewPos(chunkLength),
		ID:      field.NewFixedString("variants/ID", 8, chunkLength),
		Ref:     field.NewFixedString("variants/REF", 8, chunkLength),
		Alt:     field.NewAlt(3, 8, chunkLength),
		Qual:    field.NewQual(chunkLength),
		Filter:  filter.New([]string{"PASS"}, chunkLength),
		Info: info.New(map[string]vcf.InfoSubParser{
			"DP": info.NewNumericSubParser[int32]("variants/DP", 1, chunkLength, -1),
			"AF": info.NewNumericSubParser[float32]("variants/AF", 3, chunkLength, -1),
		}),
		Calldata: calldata.New(map[string]vcf.CalldataSubParser{
			"GT": calldata.NewGenotypeSubParser[int32]("calldata/GT", opts.Ploidy, chunkLength, opts.NSamples),
			"DP": calldata.NewNumericSubParser[int32]("calldata/DP", 1, chunkLength, opts.NSamples, -1),
		}),
		WithNumAlt: true,
		WithSVLen:  true,
	}

	d, err := vcf.NewDriver(src, cfg)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	return d
}

func drainChunks(t *testing.T, d *vcf.Driver) []*chunk.Chunk {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	var chunks []*chunk.Chunk
	for c := range d.Chunks() {
		chunks = append(chunks, c)
	}
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	return chunks
}

func TestDriverEmitsPartialTailChunk(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 10)
	chunks := drainChunks(t, d)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 partial chunk, got %d", len(chunks))
	}
	if chunks[0].Len != 2 {
		t.Fatalf("expected chunk length 2, got %d", chunks[0].Len)
	}
}

func TestDriverEmitsExactlyFullChunkWithoutTail(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 2)
	chunks := drainChunks(t, d)

	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk for 2 records / chunk_length 2, got %d", len(chunks))
	}
	if chunks[0].Len != 2 {
		t.Fatalf("expected chunk length 2, got %d", chunks[0].Len)
	}
}

func TestDriverParsesFixedFields(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 10)
	chunks := drainChunks(t, d)
	c := chunks[0]

	pos, ok := c.Get("variants/POS")
	if !ok {
		t.Fatal("missing variants/POS")
	}
	got := pos.Data.([]int32)
	if got[0] != 100 || got[1] != 200 {
		t.Fatalf("POS = %v, want [100 200]", got)
	}

	qual, ok := c.Get("variants/QUAL")
	if !ok {
		t.Fatal("missing variants/QUAL")
	}
	qd := qual.Data.([]float32)
	if qd[0] != 30.5 {
		t.Fatalf("QUAL[0] = %v, want 30.5", qd[0])
	}
	if qd[1] != -1 {
		t.Fatalf("QUAL[1] = %v, want fill -1 (QUAL was '.')", qd[1])
	}
}

func TestDriverComputesNumAltAndSVLen(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 10)
	chunks := drainChunks(t, d)
	c := chunks[0]

	numalt, ok := c.Get("variants/numalt")
	if !ok {
		t.Fatal("missing variants/numalt")
	}
	na := numalt.Data.([]int32)
	if na[0] != 2 {
		t.Fatalf("numalt[0] = %d, want 2 (two ALT alleles G,T)", na[0])
	}
	if na[1] != 1 {
		t.Fatalf("numalt[1] = %d, want 1", na[1])
	}

	svlen, ok := c.Get("variants/svlen")
	if !ok {
		t.Fatal("missing variants/svlen")
	}
	sv := svlen.Data.([]int32)
	if sv[1] != -1 { // REF=AC (2), first ALT=A (1): 1-2 = -1
		t.Fatalf("svlen[1] = %d, want -1", sv[1])
	}
}

func TestDriverParsesGenotypesAndPhasing(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 10)
	chunks := drainChunks(t, d)
	c := chunks[0]

	gt, ok := c.Get("calldata/GT")
	if !ok {
		t.Fatal("missing calldata/GT")
	}
	alleles := gt.Data.([]int32)
	// row 0, sample 0 ("0/1"): alleles [0,1]
	if alleles[0] != 0 || alleles[1] != 1 {
		t.Fatalf("row0/sample0 GT = %v, want [0 1]", alleles[0:2])
	}
	// row 0, sample 1 ("1|1"): alleles [1,1]
	if alleles[2] != 1 || alleles[3] != 1 {
		t.Fatalf("row0/sample1 GT = %v, want [1 1]", alleles[2:4])
	}
	// row 1, sample 1 ("./."): missing, fill -1
	if alleles[6] != -1 || alleles[7] != -1 {
		t.Fatalf("row1/sample1 GT = %v, want [-1 -1]", alleles[6:8])
	}

	phased, ok := c.Get("calldata/is_phased")
	if !ok {
		t.Fatal("missing calldata/is_phased")
	}
	ph := phased.Data.([]bool)
	if ph[0] {
		t.Fatal("row0/sample0 ('0/1') should be unphased")
	}
	if !ph[1] {
		t.Fatal("row0/sample1 ('1|1') should be phased")
	}
}

func TestDriverParsesInfoNumericFields(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 10)
	chunks := drainChunks(t, d)
	c := chunks[0]

	dp, ok := c.Get("variants/DP")
	if !ok {
		t.Fatal("missing variants/DP")
	}
	dpd := dp.Data.([]int32)
	if dpd[0] != 10 {
		t.Fatalf("DP[0] = %d, want 10", dpd[0])
	}
	if dpd[1] != -1 {
		t.Fatalf("DP[1] = %d, want fill -1 (INFO was '.')", dpd[1])
	}

	af, ok := c.Get("variants/AF")
	if !ok {
		t.Fatal("missing variants/AF")
	}
	afd := af.Data.([]float32)
	if afd[0] != 0.5 || afd[1] != 0.25 {
		t.Fatalf("AF[0:2] = %v, want [0.5 0.25]", afd[0:2])
	}
	if afd[2] != -1 {
		t.Fatalf("AF[2] = %v, want fill -1 (only 2 of 3 declared values present)", afd[2])
	}
	if afd[3] != -1 || afd[4] != -1 || afd[5] != -1 {
		t.Fatalf("row1 AF = %v, want fill -1 (INFO was '.')", afd[3:6])
	}
}

func TestDriverFilterColumn(t *testing.T) {
	d := newTestDriver(t, twoVariantVCF, 10)
	chunks := drainChunks(t, d)
	c := chunks[0]

	pass, ok := c.Get("variants/FILTER_PASS")
	if !ok {
		t.Fatal("missing variants/FILTER_PASS")
	}
	data := pass.Data.([]bool)
	if !data[0] {
		t.Fatal("row0 FILTER should be PASS")
	}
	if data[1] {
		t.Fatal("row1 FILTER was '.' (missing), should not be PASS")
	}
}

func TestDriverMidRecordTruncationLeavesFillValues(t *testing.T) {
	// Record ends abruptly right after REF: everything from ALT onward
	// keeps its fill value, per the I/O-end-of-stream-within-a-record rule.
	text := "3\t300\trs9\tA\n"
	d := newTestDriver(t, text, 10)
	chunks := drainChunks(t, d)

	if len(chunks) != 1 || chunks[0].Len != 1 {
		t.Fatalf("expected a single 1-record chunk, got %+v", chunks)
	}

	qual, _ := chunks[0].Get("variants/QUAL")
	if got := qual.Data.([]float32)[0]; got != -1 {
		t.Fatalf("QUAL = %v, want fill -1 for truncated record", got)
	}
}

func TestDriverInstancesAreIndependent(t *testing.T) {
	// Two Drivers over independent sources run concurrently without
	// interfering, since neither owns any package-level mutable state.
	d1 := newTestDriver(t, twoVariantVCF, 10)
	d2 := newTestDriver(t, twoVariantVCF, 10)

	done := make(chan []*chunk.Chunk, 2)
	go func() { done <- drainChunks(t, d1) }()
	go func() { done <- drainChunks(t, d2) }()

	c1 := <-done
	c2 := <-done
	if len(c1) != 1 || len(c2) != 1 {
		t.Fatalf("expected both drivers to emit 1 chunk each, got %d and %d", len(c1), len(c2))
	}
}

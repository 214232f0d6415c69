package calldata_test

import (
	"strings"
	"testing"

	"github.com/inodb/vcfx/internal/vcf"
	"github.com/inodb/vcfx/internal/vcf/calldata"
)

func TestFormatCalldataRoundTrip(t *testing.T) {
	gt := calldata.NewGenotypeSubParser[int32]("calldata/GT", 2, 1, 2)
	dp := calldata.NewNumericSubParser[int32]("calldata/DP", 1, 1, 2, -1)
	registry := map[string]vcf.CalldataSubParser{"GT": gt, "DP": dp}
	p := calldata.New(registry)

	// FORMAT column, then two TAB-separated samples, then record end.
	text := "GT:DP\t0/1:9\t1|0:4\n"
	src := vcf.NewByteSource(vcf.ReaderFiller{R: strings.NewReader(text)}, 64)
	ctx, err := vcf.NewParserContext(src, 256, 2, 1, 2)
	if err != nil {
		t.Fatalf("NewParserContext: %v", err)
	}

	if err := p.ParseFormat(ctx); err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if ctx.C != vcf.Tab {
		t.Fatalf("ParseFormat should stop at TAB, got %q", ctx.C)
	}
	if ctx.VariantNFormats != 2 {
		t.Fatalf("VariantNFormats = %d, want 2", ctx.VariantNFormats)
	}
	if err := ctx.Getc(); err != nil { // consume TAB, matching driver's consumeTerminator
		t.Fatalf("Getc: %v", err)
	}

	if err := p.ParseCalldata(ctx); err != nil {
		t.Fatalf("ParseCalldata: %v", err)
	}
	if ctx.C != 0 {
		t.Fatalf("ParseCalldata should consume through end-of-stream, got %q", ctx.C)
	}

	alleles := gt.FreezeAll(1)[0].Data.([]int32)
	if alleles[0] != 0 || alleles[1] != 1 {
		t.Fatalf("sample0 GT = %v, want [0 1]", alleles[0:2])
	}
	if alleles[2] != 1 || alleles[3] != 0 {
		t.Fatalf("sample1 GT = %v, want [1 0]", alleles[2:4])
	}

	dpVals := dp.FreezeAll(1)[0].Data.([]int32)
	if dpVals[0] != 9 || dpVals[1] != 4 {
		t.Fatalf("DP = %v, want [9 4]", dpVals)
	}
}

func TestCalldataFewerSubfieldsThanFormatLeavesFill(t *testing.T) {
	gt := calldata.NewGenotypeSubParser[int32]("calldata/GT", 2, 1, 1)
	dp := calldata.NewNumericSubParser[int32]("calldata/DP", 1, 1, 1, -1)
	registry := map[string]vcf.CalldataSubParser{"GT": gt, "DP": dp}
	p := calldata.New(registry)

	text := "GT:DP\t0/1\n" // sample carries only GT, not DP
	src := vcf.NewByteSource(vcf.ReaderFiller{R: strings.NewReader(text)}, 64)
	ctx, err := vcf.NewParserContext(src, 256, 1, 1, 2)
	if err != nil {
		t.Fatalf("NewParserContext: %v", err)
	}

	if err := p.ParseFormat(ctx); err != nil {
		t.Fatalf("ParseFormat: %v", err)
	}
	if err := ctx.Getc(); err != nil {
		t.Fatalf("Getc: %v", err)
	}
	if err := p.ParseCalldata(ctx); err != nil {
		t.Fatalf("ParseCalldata: %v", err)
	}

	dpVals := dp.FreezeAll(1)[0].Data.([]int32)
	if dpVals[0] != -1 {
		t.Fatalf("DP = %d, want fill -1 (subfield absent from this sample)", dpVals[0])
	}
}

package header_test

import (
	"strings"
	"testing"

	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/header"
)

const sampleHeaderText = `##fileformat=VCFv4.2
##FILTER=<ID=q10,Description="Quality below 10">
##INFO=<ID=DP,Number=1,Type=Integer,Description="Read depth">
##INFO=<ID=AF,Number=A,Type=Float,Description="Allele frequency">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=DP,Number=1,Type=Integer,Description="Sample depth">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	sample1	sample2
1	100	rs1	A	G	30	PASS	DP=10	GT:DP	0/1:8	1/1:12
`

func readTestHeaders(t *testing.T) *header.Headers {
	t.Helper()
	h, err := header.ReadHeaders(strings.NewReader(sampleHeaderText))
	if err != nil {
		t.Fatalf("ReadHeaders: %v", err)
	}
	return h
}

func TestReadHeadersExtractsSamplesAndMeta(t *testing.T) {
	h := readTestHeaders(t)

	if len(h.Samples) != 2 || h.Samples[0] != "sample1" || h.Samples[1] != "sample2" {
		t.Fatalf("Samples = %v, want [sample1 sample2]", h.Samples)
	}
	if _, ok := h.Infos["DP"]; !ok {
		t.Fatal("missing INFO DP")
	}
	if _, ok := h.Formats["GT"]; !ok {
		t.Fatal("missing FORMAT GT")
	}
	if _, ok := h.Filters["q10"]; !ok {
		t.Fatal("missing FILTER q10")
	}
}

func TestReadHeadersRejectsMissingChromLine(t *testing.T) {
	_, err := header.ReadHeaders(strings.NewReader("##fileformat=VCFv4.2\n"))
	if err == nil {
		t.Fatal("expected error for missing #CHROM line")
	}
}

func TestNormalizeNumber(t *testing.T) {
	cases := map[string]int{".": 1, "A": 3, "G": 3, "R": 4, "1": 1, "2": 2, "bogus": 1}
	for in, want := range cases {
		if got := header.NormalizeNumber(in); got != want {
			t.Errorf("NormalizeNumber(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestNormalizeType(t *testing.T) {
	cases := map[string]chunk.StorageType{
		"Integer":   chunk.Int32,
		"Float":     chunk.Float32,
		"Flag":      chunk.Bool,
		"String":    chunk.FixedBytes,
		"Character": chunk.FixedBytes,
		"bogus":     chunk.FixedBytes,
	}
	for in, want := range cases {
		if got := header.NormalizeType(in); got != want {
			t.Errorf("NormalizeType(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNormalizeFieldsExpandsStarShorthand(t *testing.T) {
	h := readTestHeaders(t)
	fields := header.NormalizeFields([]string{"*"}, h, true)

	want := map[string]bool{
		"variants/CHROM":       true,
		"variants/DP":          true,
		"variants/AF":          true,
		"variants/FILTER_PASS": true,
		"variants/FILTER_q10":  true,
		"variants/numalt":      true,
		"variants/svlen":       true,
		"calldata/GT":          true,
		"calldata/DP":          true,
	}
	got := map[string]bool{}
	for _, f := range fields {
		got[f] = true
	}
	for w := range want {
		if !got[w] {
			t.Errorf("expected %q in expanded field list, got %v", w, fields)
		}
	}
}

func TestNormalizeFieldsSuppressesCalldataWithoutSamples(t *testing.T) {
	h := readTestHeaders(t)
	fields := header.NormalizeFields([]string{"*", "calldata/GT"}, h, false)

	for _, f := range fields {
		if strings.HasPrefix(f, "calldata/") {
			t.Fatalf("calldata field %q should be suppressed when hasSamples is false", f)
		}
	}
}

func TestNormalizeFieldsPassesExactNamesThrough(t *testing.T) {
	h := readTestHeaders(t)
	fields := header.NormalizeFields([]string{"variants/DP"}, h, true)
	if len(fields) != 1 || fields[0] != "variants/DP" {
		t.Fatalf("fields = %v, want [variants/DP]", fields)
	}
}

func TestBuildFieldConfigResolvesDeclaredTypesAndNumbers(t *testing.T) {
	h := readTestHeaders(t)
	fc := header.BuildFieldConfig([]string{"variants/DP", "variants/AF", "calldata/GT", "variants/POS"}, h, true)

	if fc.Types["variants/DP"] != chunk.Int32 || fc.Numbers["variants/DP"] != 1 {
		t.Errorf("variants/DP = %v/%d, want Int32/1", fc.Types["variants/DP"], fc.Numbers["variants/DP"])
	}
	if fc.Types["variants/AF"] != chunk.Float32 || fc.Numbers["variants/AF"] != 3 {
		t.Errorf("variants/AF = %v/%d, want Float32/3", fc.Types["variants/AF"], fc.Numbers["variants/AF"])
	}
	if fc.Types["calldata/GT"] != chunk.FixedBytes {
		t.Errorf("calldata/GT type = %v, want FixedBytes", fc.Types["calldata/GT"])
	}
	if fc.Types["variants/POS"] != chunk.Int32 || fc.Numbers["variants/POS"] != 1 {
		t.Errorf("variants/POS = %v/%d, want Int32/1", fc.Types["variants/POS"], fc.Numbers["variants/POS"])
	}
}

func TestBuildFieldConfigFallsBackForUndeclaredField(t *testing.T) {
	h := readTestHeaders(t)
	fc := header.BuildFieldConfig([]string{"variants/NOT_DECLARED"}, h, true)

	if fc.Types["variants/NOT_DECLARED"] != chunk.FixedBytes || fc.Numbers["variants/NOT_DECLARED"] != 1 {
		t.Fatalf("undeclared field should fall back to FixedBytes/1, got %v/%d",
			fc.Types["variants/NOT_DECLARED"], fc.Numbers["variants/NOT_DECLARED"])
	}
}

package filter_test

import (
	"strings"
	"testing"

	"github.com/inodb/vcfx/internal/vcf"
	"github.com/inodb/vcfx/internal/vcf/filter"
)

func parseFilterField(t *testing.T, text string, names []string) *filter.Parser {
	t.Helper()
	src := vcf.NewByteSource(vcf.ReaderFiller{R: strings.NewReader(text + "\t")}, 64)
	ctx, err := vcf.NewParserContext(src, 256, 0, 1, 2)
	if err != nil {
		t.Fatalf("NewParserContext: %v", err)
	}
	p := filter.New(names, 1)
	if err := p.Parse(ctx); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if ctx.C != vcf.Tab {
		t.Fatalf("expected parser to stop at TAB, got %q", ctx.C)
	}
	return p
}

func TestFilterPassSetsOnlyPassColumn(t *testing.T) {
	p := parseFilterField(t, "PASS", []string{"PASS", "q10", "s50"})
	arrs := p.FreezeAll(1)
	for _, a := range arrs {
		want := a.Name == "variants/FILTER_PASS"
		if got := a.Data.([]bool)[0]; got != want {
			t.Fatalf("%s = %v, want %v", a.Name, got, want)
		}
	}
}

func TestFilterLenientSeparators(t *testing.T) {
	p := parseFilterField(t, "q10:s50", []string{"PASS", "q10", "s50"})
	arrs := p.FreezeAll(1)
	got := map[string]bool{}
	for _, a := range arrs {
		got[a.Name] = a.Data.([]bool)[0]
	}
	if !got["variants/FILTER_q10"] || !got["variants/FILTER_s50"] {
		t.Fatalf("expected both q10 and s50 set via lenient ':' separator, got %v", got)
	}
}

func TestFilterMissingValueLeavesAllUnset(t *testing.T) {
	p := parseFilterField(t, ".", []string{"PASS", "q10"})
	arrs := p.FreezeAll(1)
	for _, a := range arrs {
		if a.Data.([]bool)[0] {
			t.Fatalf("%s should be unset for missing FILTER field", a.Name)
		}
	}
}

func TestFilterUnknownTokenSilentlyDiscarded(t *testing.T) {
	p := parseFilterField(t, "some_unregistered_filter", []string{"PASS"})
	arrs := p.FreezeAll(1)
	if arrs[0].Data.([]bool)[0] {
		t.Fatal("PASS should not be set for an unrelated unknown token")
	}
}

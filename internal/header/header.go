// Package header derives per-field configuration (which fields exist,
// their storage type, and their cardinality) from a VCF file's meta-
// information lines, the way a caller is expected to supply out of band
// per the core parser's Non-goals. Grounded in io_vcf_read.py's
// _read_vcf_headers/_normalize_fields/_normalize_types/_normalize_numbers.
package header

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/inodb/vcfx/internal/chunk"
)

var (
	reFilter = regexp.MustCompile(`^##FILTER=<ID=([^,]+),Description="([^"]*)">`)
	reInfo   = regexp.MustCompile(`^##INFO=<ID=([^,]+),Number=([^,]+),Type=([^,]+),Description="([^"]*)">`)
	reFormat = regexp.MustCompile(`^##FORMAT=<ID=([^,]+),Number=([^,]+),Type=([^,]+),Description="([^"]*)">`)
)

// Meta describes one ##INFO/##FORMAT/##FILTER declaration.
type Meta struct {
	ID          string
	Number      string // raw declared cardinality: ".", "A", "R", "G", or an integer
	Type        string // raw declared type: Integer, Float, String, Character, Flag
	Description string
}

// Headers holds everything ReadHeaders extracted from a VCF's
// meta-information and #CHROM lines.
type Headers struct {
	Lines   []string
	Filters map[string]Meta
	Infos   map[string]Meta
	Formats map[string]Meta
	Samples []string
}

// ReadHeaders reads meta-information lines from r up to and including the
// mandatory "#CHROM" line, from which sample names are extracted. The
// caller is responsible for positioning r at the start of the file; data
// lines beyond #CHROM are left unread.
func ReadHeaders(r io.Reader) (*Headers, error) {
	h := &Headers{
		Filters: make(map[string]Meta),
		Infos:   make(map[string]Meta),
		Formats: make(map[string]Meta),
	}

	// Feeding the scanner one byte per Read keeps it from buffering past
	// the #CHROM line's newline, so the data lines stay in r.
	scanner := bufio.NewScanner(oneByteReader{r})
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] != '#' {
			return nil, fmt.Errorf("header: expected '#CHROM' header line, found non-header line")
		}
		h.Lines = append(h.Lines, line)

		switch {
		case strings.HasPrefix(line, "##FILTER"):
			m := reFilter.FindStringSubmatch(line)
			if m == nil {
				continue // permissive: malformed meta-line, keep going
			}
			h.Filters[m[1]] = Meta{ID: m[1], Description: m[2]}

		case strings.HasPrefix(line, "##INFO"):
			m := reInfo.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			h.Infos[m[1]] = Meta{ID: m[1], Number: m[2], Type: m[3], Description: m[4]}

		case strings.HasPrefix(line, "##FORMAT"):
			m := reFormat.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			h.Formats[m[1]] = Meta{ID: m[1], Number: m[2], Type: m[3], Description: m[4]}

		case strings.HasPrefix(line, "#CHROM"):
			cols := strings.Split(line, "\t")
			if len(cols) > 9 {
				h.Samples = append([]string(nil), cols[9:]...)
			}
			return h, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	return nil, fmt.Errorf("header: missing mandatory #CHROM header line")
}

// oneByteReader hands out at most one byte per Read call.
type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

// NormalizeNumber maps a declared VCF Number token to a fixed column
// count: "." is treated as 1 (variable-length INFO/FORMAT keys still get a
// single working slot, the same relaxation io_vcf_read.py's
// _normalize_number makes for unbounded multi-value fields), "A" and "G"
// as 3, "R" as 4, anything else parsed as a literal integer (falling back
// to 1 on a malformed token).
func NormalizeNumber(n string) int {
	switch n {
	case ".":
		return 1
	case "A", "G":
		return 3
	case "R":
		return 4
	}
	v, err := strconv.Atoi(n)
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// NormalizeType maps a declared VCF Type token to a storage type. String
// and Character both map to a fixed-width byte column; anything
// unrecognized falls back to String.
func NormalizeType(t string) chunk.StorageType {
	switch t {
	case "Integer":
		return chunk.Int32
	case "Float":
		return chunk.Float32
	case "Flag":
		return chunk.Bool
	case "String", "Character":
		return chunk.FixedBytes
	default:
		return chunk.FixedBytes
	}
}

// FieldConfig is the normalized, fully-resolved field list a caller hands
// to vcf.NewDriver: which fields to parse, and each one's storage type and
// declared cardinality.
type FieldConfig struct {
	Fields  []string
	Types   map[string]chunk.StorageType
	Numbers map[string]int
}

// NormalizeFields expands the group shorthands ("*", "variants/*",
// "calldata/*", "INFO/*", "FILTER/*") io_vcf_read.py's _normalize_fields
// recognizes into the concrete field-name set h actually declares, and
// passes exact field names through unchanged. hasSamples suppresses
// calldata/* expansion (and any literal "calldata/..." request) when the
// file declares no samples.
func NormalizeFields(requested []string, h *Headers, hasSamples bool) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	addAllInfo := func() {
		for k := range h.Infos {
			add("variants/" + k)
		}
	}
	addAllFilter := func() {
		add("variants/FILTER_PASS")
		for k := range h.Filters {
			add("variants/FILTER_" + k)
		}
	}
	addAllVariants := func() {
		for _, f := range fixedVariantsFields {
			add("variants/" + f)
		}
		addAllInfo()
		addAllFilter()
		add("variants/numalt")
		add("variants/svlen")
	}
	addAllCalldata := func() {
		if !hasSamples {
			return
		}
		for k := range h.Formats {
			add("calldata/" + k)
		}
	}

	for _, f := range requested {
		switch f {
		case "*", "kitchen sink":
			addAllVariants()
			addAllCalldata()
		case "variants", "variants*", "variants/*":
			addAllVariants()
		case "calldata", "calldata*", "calldata/*":
			addAllCalldata()
		case "INFO", "INFO*", "INFO/*", "variants/INFO", "variants/INFO*", "variants/INFO/*":
			addAllInfo()
		case "FILTER", "FILTER*", "FILTER/*", "FILTER_*",
			"variants/FILTER", "variants/FILTER*", "variants/FILTER/*", "variants/FILTER_*":
			addAllFilter()
		default:
			if strings.HasPrefix(f, "calldata/") && !hasSamples {
				continue
			}
			add(f)
		}
	}
	return out
}

// fixedVariantsFields are the always-present fixed-column fields,
// mirroring io_vcf_read.py's FIXED_VARIANTS_FIELDS.
var fixedVariantsFields = []string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL"}

// BuildFieldConfig resolves requested field names against h into a
// FieldConfig: each resolved name gets a storage type and a cardinality,
// falling back to String/1 (with no warning here; callers that want one
// should inspect the fallback themselves, mirroring the permissive
// posture of the parser itself) when a name isn't declared anywhere.
func BuildFieldConfig(requested []string, h *Headers, hasSamples bool) FieldConfig {
	fields := NormalizeFields(requested, h, hasSamples)
	cfg := FieldConfig{
		Fields:  fields,
		Types:   make(map[string]chunk.StorageType, len(fields)),
		Numbers: make(map[string]int, len(fields)),
	}

	for _, f := range fields {
		group, name, ok := splitField(f)
		if !ok {
			continue
		}

		switch {
		case group == "variants" && (name == "numalt" || name == "svlen"):
			cfg.Types[f] = chunk.Int32
			cfg.Numbers[f] = 1

		case group == "variants" && strings.HasPrefix(name, "FILTER_"):
			cfg.Types[f] = chunk.Bool
			cfg.Numbers[f] = 0

		case group == "variants" && name == "QUAL":
			cfg.Types[f] = chunk.Float32
			cfg.Numbers[f] = 1

		case group == "variants" && name == "POS":
			cfg.Types[f] = chunk.Int32
			cfg.Numbers[f] = 1

		case group == "variants" && name == "ALT":
			cfg.Types[f] = chunk.FixedBytes
			cfg.Numbers[f] = 3

		case group == "variants" && isFixedVariantsField(name):
			cfg.Types[f] = chunk.FixedBytes
			cfg.Numbers[f] = 1

		case group == "variants":
			if m, ok := h.Infos[name]; ok {
				cfg.Types[f] = NormalizeType(m.Type)
				cfg.Numbers[f] = NormalizeNumber(m.Number)
			} else {
				cfg.Types[f] = chunk.FixedBytes
				cfg.Numbers[f] = 1
			}

		case group == "calldata":
			if m, ok := h.Formats[name]; ok {
				cfg.Types[f] = NormalizeType(m.Type)
				cfg.Numbers[f] = NormalizeNumber(m.Number)
			} else {
				cfg.Types[f] = chunk.FixedBytes
				cfg.Numbers[f] = 1
			}
		}
	}

	return cfg
}

func isFixedVariantsField(name string) bool {
	for _, f := range fixedVariantsFields {
		if f == name {
			return true
		}
	}
	return false
}

func splitField(f string) (group, name string, ok bool) {
	i := strings.IndexByte(f, '/')
	if i < 0 {
		return "", "", false
	}
	return f[:i], f[i+1:], true
}

package vcf

import "github.com/inodb/vcfx/internal/chunk"

// FieldParser is implemented by every component the driver dispatches to
// for exactly one state. Parse must consume bytes through (but never past)
// the field's terminator -- TAB for an interior field, or TAB/NEWLINE/0 for
// whichever field turns out to be last in a given record, which the
// permissive grammar does not fix in advance. The driver, not Parse,
// consumes the terminator itself.
type FieldParser interface {
	Parse(ctx *ParserContext) error
}

// ArrayOwner is implemented by every component that accumulates one or more
// output arrays across a chunk's worth of records. FreezeAll is called
// exactly once per chunk boundary (full or partial); it must return copies
// of the data written so far, sliced to length (squeezing is left to the
// reader, via chunk.Array.Squeeze), and must not be called again until
// ResetAll has installed fresh, fill-initialized storage.
type ArrayOwner interface {
	FreezeAll(length int) []chunk.Array
	ResetAll()
}

// InfoSubParser is a single configured INFO key's typed value parser. It is
// selected by key from the InfoParser's registry and invoked once per
// record that mentions the key, with ctx positioned just after '=' (or, for
// a flag, right at the terminator -- ParseValue is responsible for
// detecting the flag case itself by checking whether anything follows).
type InfoSubParser interface {
	ArrayOwner
	// ParseValue consumes the value up to (not including) the next
	// SEMICOLON/TAB/NEWLINE/0.
	ParseValue(ctx *ParserContext) error
}

// CalldataSubParser is a single configured FORMAT key's typed per-sample
// value parser, resolved into the per-record dispatch vector by FORMAT and
// invoked once per sample that carries the subfield.
type CalldataSubParser interface {
	ArrayOwner
	// ParseSubfield consumes one sample's value for this key, up to (not
	// including) the next COLON/TAB/NEWLINE/0.
	ParseSubfield(ctx *ParserContext) error
}

// FixedFieldParser is the shape every fixed-column component (CHROM, POS,
// ID, REF, ALT, QUAL, and the FILTER/INFO aggregates) satisfies: it parses
// its own state and owns its own output array(s).
type FixedFieldParser interface {
	FieldParser
	ArrayOwner
}

// RefFieldParser additionally exposes the current row's REF length, used
// by the driver to compute the supplementary "variants/svlen" field.
type RefFieldParser interface {
	FixedFieldParser
	RefLen(row int) int
}

// AltFieldParser additionally exposes the current row's ALT shape, used by
// the driver to compute the supplementary "variants/numalt" and
// "variants/svlen" fields.
type AltFieldParser interface {
	FixedFieldParser
	AltCount(row int) int
	AltLen(row int) int
}

// FormatCalldataParser implements both the FORMAT and CALLDATA states; they
// share the FORMAT-key registry and the per-record dispatch vector, so one
// component owns both per spec.
type FormatCalldataParser interface {
	ArrayOwner
	ParseFormat(ctx *ParserContext) error
	ParseCalldata(ctx *ParserContext) error
}

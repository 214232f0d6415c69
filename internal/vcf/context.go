package vcf

import "strconv"

// Byte values the state machine and every field parser recognize as
// delimiters. Named here so sub-parsers never hardcode a stray '\t'.
const (
	Tab       byte = '\t'
	Newline   byte = '\n'
	Comma     byte = ','
	Semicolon byte = ';'
	Colon     byte = ':'
	Equals    byte = '='
	Dot       byte = '.'
	Slash     byte = '/'
	Pipe      byte = '|'
)

// IsRecordEnd reports whether b terminates a record: an actual newline, or
// the end-of-stream sentinel.
func IsRecordEnd(b byte) bool {
	return b == Newline || b == 0
}

// ParserContext is the single piece of shared mutable state every parser in
// the pipeline operates on: the current lookahead byte, a reusable scratch
// buffer, parsed-scalar scratch registers, the running counters, and the
// per-record FORMAT dispatch vector. Exactly one ParserContext exists per
// Driver; nothing here is safe to share across concurrently running
// Drivers, by design (see DriverPool for running several at once).
type ParserContext struct {
	src *ByteSource

	// C is the current lookahead byte. It is always valid: 0 only once
	// the source is genuinely exhausted.
	C byte

	scratch    []byte
	scratchCap int

	// L and D are the scratch registers TempToLong/TempToDouble fill in.
	L int64
	D float64

	VariantIndex      int64
	ChunkVariantIndex int
	SampleIndex       int
	FormatIndex       int

	// Dispatch is the current record's FORMAT dispatch vector: one entry
	// per colon-delimited FORMAT key, in declaration order. A nil entry
	// means "skip this subfield" (unknown key, or dropped by config).
	// It is only valid within the record that declared it; FormatParser
	// overwrites it (rather than appending) on every FORMAT parse.
	Dispatch         []CalldataSubParser
	VariantNFormats  int

	NSamples    int
	ChunkLength int
	Ploidy      int

	State State

	warnings   []Warning
	warnSink   func(Warning)
	maxWarnings int
}

// NewParserContext allocates a context over src with the given scratch
// buffer capacity and record-shape configuration. The first byte of the
// stream is loaded immediately so C is valid as soon as the context is
// returned, matching the invariant that C is always valid lookahead.
func NewParserContext(src *ByteSource, scratchCap, nSamples, chunkLength, ploidy int) (*ParserContext, error) {
	if scratchCap <= 0 {
		scratchCap = 4096
	}
	ctx := &ParserContext{
		src:         src,
		scratch:     make([]byte, 0, scratchCap),
		scratchCap:  scratchCap,
		NSamples:    nSamples,
		ChunkLength: chunkLength,
		Ploidy:      ploidy,
		maxWarnings: 10000,
	}
	if err := ctx.Getc(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// SetWarnSink installs a callback invoked synchronously every time Warn is
// called, in addition to the warning being appended to Warnings(). Used by
// callers that want warnings logged (via zap, typically) as they happen
// rather than only inspected after the fact.
func (ctx *ParserContext) SetWarnSink(f func(Warning)) {
	ctx.warnSink = f
}

// Getc reads one byte from the underlying ByteSource into C.
func (ctx *ParserContext) Getc() error {
	b, err := ctx.src.NextByte()
	if err != nil {
		return err
	}
	ctx.C = b
	return nil
}

// TempClear empties the scratch buffer without releasing its capacity.
func (ctx *ParserContext) TempClear() {
	ctx.scratch = ctx.scratch[:0]
}

// TempAppend appends one byte to the scratch buffer. Once the buffer would
// exceed its configured capacity, further bytes are silently dropped
// (clamped) and a warning is recorded rather than growing unbounded or
// erroring -- per spec, an overlong token is a recoverable anomaly.
func (ctx *ParserContext) TempAppend(b byte) {
	if len(ctx.scratch) >= ctx.scratchCap {
		ctx.Warn("temp", "scratch buffer overflow, token truncated")
		return
	}
	ctx.scratch = append(ctx.scratch, b)
}

// TempTerminate is a no-op placeholder for parsers ported from a C-style
// NUL-terminated scratch buffer convention: Go's scratch slice already
// tracks its own length, so there is nothing to terminate. Kept as a named
// step so the parse loops below read the same shape as the design they are
// grounded on.
func (ctx *ParserContext) TempTerminate() {}

// Temp returns the current scratch buffer contents.
func (ctx *ParserContext) Temp() []byte {
	return ctx.scratch
}

// TempToLong parses the scratch buffer as a base-10 signed integer into L.
// An empty buffer or a single '.' is the missing-value convention and
// returns ok == false, as does any other unparseable content. TempToLong
// itself never warns; each caller leaves its fill value in place and
// decides whether to warn.
func (ctx *ParserContext) TempToLong() (ok bool) {
	if len(ctx.scratch) == 0 || (len(ctx.scratch) == 1 && ctx.scratch[0] == Dot) {
		return false
	}
	v, err := strconv.ParseInt(string(ctx.scratch), 10, 64)
	if err != nil {
		return false
	}
	ctx.L = v
	return true
}

// TempToDouble parses the scratch buffer as a floating point value into D,
// with the same missing-value convention as TempToLong.
func (ctx *ParserContext) TempToDouble() (ok bool) {
	if len(ctx.scratch) == 0 || (len(ctx.scratch) == 1 && ctx.scratch[0] == Dot) {
		return false
	}
	v, err := strconv.ParseFloat(string(ctx.scratch), 64)
	if err != nil {
		return false
	}
	ctx.D = v
	return true
}

// Warn records a recoverable anomaly, tagged with the current variant
// index and the field it occurred in.
func (ctx *ParserContext) Warn(field, message string) {
	w := Warning{VariantIndex: ctx.VariantIndex, Field: field, Message: message}
	if len(ctx.warnings) < ctx.maxWarnings {
		ctx.warnings = append(ctx.warnings, w)
	}
	if ctx.warnSink != nil {
		ctx.warnSink(w)
	}
}

// Warnings returns every warning recorded so far (capped at an internal
// limit so a pathological file can't turn warning collection into an
// unbounded memory leak; the cap does not affect parsing itself).
func (ctx *ParserContext) Warnings() []Warning {
	return ctx.warnings
}

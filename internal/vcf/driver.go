package vcf

import (
	"context"

	"github.com/inodb/vcfx/internal/chunk"
)

// DriverConfig assembles all of the configured parser components a Driver
// sequences across a record. The six fixed-column parsers are required;
// Filter, Info and Calldata may be nil, and NumAlt/SVLen are only populated
// when the caller requested the corresponding supplementary field.
type DriverConfig struct {
	Options

	Chrom FixedFieldParser
	Pos   FixedFieldParser
	ID    FixedFieldParser
	Ref   RefFieldParser
	Alt   AltFieldParser
	Qual  FixedFieldParser

	Filter FixedFieldParser // nil if no FILTER columns were requested
	Info   FixedFieldParser // nil if no INFO keys were requested
	Calldata FormatCalldataParser // nil if NSamples == 0 or no FORMAT keys requested

	// WithNumAlt/WithSVLen request the two supplementary computed fields
	// documented in SPEC_FULL.md §4.2.
	WithNumAlt bool
	WithSVLen  bool
}

// Driver owns the ParserContext and sequences the configured field parsers
// through the CHROM..CALLDATA state machine, emitting chunk.Chunk values on
// Chunks() as soon as chunk_length records (or, at end of stream, the
// trailing partial batch) have accumulated.
type Driver struct {
	cfg DriverConfig
	ctx *ParserContext

	owners []ArrayOwner

	numalt *computedInt32
	svlen  *computedInt32

	out chan *chunk.Chunk
}

// NewDriver constructs a Driver over src per cfg. The returned Driver has
// not yet read anything beyond the first lookahead byte; call Run to drive
// it to completion.
func NewDriver(src *ByteSource, cfg DriverConfig) (*Driver, error) {
	ctx, err := NewParserContext(src, cfg.TempBufferSize, cfg.NSamples, cfg.ChunkLength, cfg.Ploidy)
	if err != nil {
		return nil, err
	}

	d := &Driver{cfg: cfg, ctx: ctx, out: make(chan *chunk.Chunk, 2)}

	owners := []ArrayOwner{cfg.Chrom, cfg.Pos, cfg.ID, cfg.Ref, cfg.Alt, cfg.Qual}
	if cfg.Filter != nil {
		owners = append(owners, cfg.Filter)
	}
	if cfg.Info != nil {
		owners = append(owners, cfg.Info)
	}
	if cfg.Calldata != nil {
		owners = append(owners, cfg.Calldata)
	}
	if cfg.WithNumAlt {
		d.numalt = newComputedInt32("variants/numalt", cfg.ChunkLength, -1)
		owners = append(owners, d.numalt)
	}
	if cfg.WithSVLen {
		d.svlen = newComputedInt32("variants/svlen", cfg.ChunkLength, -1)
		owners = append(owners, d.svlen)
	}
	d.owners = owners

	return d, nil
}

// Context exposes the underlying ParserContext, mainly so a caller can
// inspect Warnings() after Run returns.
func (d *Driver) Context() *ParserContext {
	return d.ctx
}

// Chunks returns the channel Run sends completed chunks to. It is closed
// once Run returns, after the final (possibly partial) chunk has been sent.
func (d *Driver) Chunks() <-chan *chunk.Chunk {
	return d.out
}

// Run drives the state machine to completion, sending every full chunk and
// the final partial chunk (if any) to Chunks(), then closes it. ctx is
// consulted only between records -- cancellation cannot interrupt
// mid-record, matching the single-threaded, synchronous-along-the-byte-
// stream concurrency model the core commits to.
func (d *Driver) Run(runCtx context.Context) error {
	defer close(d.out)

	for d.ctx.C != 0 {
		if err := runCtx.Err(); err != nil {
			return err
		}

		if err := d.runRecord(); err != nil {
			return err
		}
		d.ctx.VariantIndex++
		d.ctx.ChunkVariantIndex++

		if d.ctx.ChunkVariantIndex == d.ctx.ChunkLength {
			d.emit(d.ctx.ChunkLength)
			d.ctx.ChunkVariantIndex = 0
		}
	}

	if d.ctx.ChunkVariantIndex > 0 {
		d.emit(d.ctx.ChunkVariantIndex)
		d.ctx.ChunkVariantIndex = 0
	}

	return nil
}

// runRecord parses exactly one record, starting and (on success) ending
// with the state machine back at CHROM. It returns as soon as a record
// terminator (NEWLINE or end-of-stream) is reached, whichever field that
// happens on -- every field parser not yet reached for this record simply
// keeps its slot's fill value, which is the I/O-end-of-stream-within-a-
// record behavior spec.md §7 requires.
func (d *Driver) runRecord() error {
	row := d.ctx.ChunkVariantIndex

	steps := []fieldStep{
		{StateCHROM, d.cfg.Chrom},
		{StatePOS, d.cfg.Pos},
		{StateID, d.cfg.ID},
		{StateREF, d.cfg.Ref},
		{StateALT, d.cfg.Alt},
	}
	for _, s := range steps {
		d.ctx.State = s.state
		if err := s.p.Parse(d.ctx); err != nil {
			return err
		}
		ended, err := d.consumeTerminator(s.state)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}

	if d.numalt != nil {
		d.numalt.set(row, int32(d.cfg.Alt.AltCount(row)))
	}
	if d.svlen != nil {
		d.svlen.set(row, int32(d.cfg.Alt.AltLen(row)-d.cfg.Ref.RefLen(row)))
	}

	filterParser := d.cfg.Filter
	if filterParser == nil {
		filterParser = skipField{}
	}
	infoParser := d.cfg.Info
	if infoParser == nil {
		infoParser = skipField{}
	}
	rest := []fieldStep{
		{StateQUAL, d.cfg.Qual},
		{StateFILTER, filterParser},
		{StateINFO, infoParser},
	}
	for _, s := range rest {
		d.ctx.State = s.state
		if err := s.p.Parse(d.ctx); err != nil {
			return err
		}
		ended, err := d.consumeTerminator(s.state)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}

	if d.ctx.NSamples == 0 || d.cfg.Calldata == nil {
		// No FORMAT/CALLDATA parsing: skip any remaining columns through
		// the record terminator.
		for !IsRecordEnd(d.ctx.C) {
			if err := d.ctx.Getc(); err != nil {
				return err
			}
		}
		_, err := d.consumeTerminator(StateINFO)
		return err
	}

	d.ctx.State = StateFORMAT
	if err := d.cfg.Calldata.ParseFormat(d.ctx); err != nil {
		return err
	}
	ended, err := d.consumeTerminator(StateFORMAT)
	if err != nil {
		return err
	}
	if ended {
		return nil
	}

	d.ctx.State = StateCALLDATA
	d.ctx.SampleIndex = 0
	d.ctx.FormatIndex = 0
	// ParseCalldata consumes its own trailing terminator (TAB-separated
	// samples internally, NEWLINE/0 at record end), per spec §4.8.
	return d.cfg.Calldata.ParseCalldata(d.ctx)
}

// consumeTerminator advances past the byte a field parser stopped at: a
// TAB means more fields follow; a NEWLINE or the end-of-stream sentinel
// means the record is over, possibly short. Any other byte left behind by
// a FieldParser.Parse implementation is an internal contract violation.
func (d *Driver) consumeTerminator(state State) (ended bool, err error) {
	switch d.ctx.C {
	case Tab:
		if err := d.ctx.Getc(); err != nil {
			return false, err
		}
		return false, nil
	case Newline:
		if err := d.ctx.Getc(); err != nil {
			return false, err
		}
		return true, nil
	case 0:
		return true, nil
	default:
		return false, &FatalError{
			VariantIndex: d.ctx.VariantIndex,
			State:        state,
			Message:      "field parser returned without consuming through its terminator",
		}
	}
}

// emit freezes every owner's in-progress array at the given length,
// assembles the chunk, sends it, and resets every owner for the next batch.
func (d *Driver) emit(length int) {
	fields := make(map[string]chunk.Array)
	for _, o := range d.owners {
		for _, a := range o.FreezeAll(length) {
			fields[a.Name] = a
		}
	}
	for _, o := range d.owners {
		o.ResetAll()
	}
	d.out <- &chunk.Chunk{Len: length, Fields: fields}
}

// fieldStep pairs a state with the parser that handles it, used to drive
// the fixed CHROM..INFO portion of a record as a simple loop.
type fieldStep struct {
	state State
	p     FieldParser
}

// skipField consumes a field's bytes without storing anything: the
// driver's stand-in for an unrequested FILTER or INFO column.
type skipField struct{}

func (skipField) Parse(ctx *ParserContext) error {
	for ctx.C != Tab && !IsRecordEnd(ctx.C) {
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	return nil
}

func (skipField) FreezeAll(length int) []chunk.Array { return nil }

func (skipField) ResetAll() {}

// Package info implements the INFO field parser and its typed per-key
// sub-parsers, per spec.md §4.6.
package info

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// numeric is the constraint satisfied by every storage type the INFO and
// calldata numeric sub-parsers specialize over -- spec.md §9's "Type
// specialization" design note, realized with Go generics instead of
// per-width duplicated functions or a hand-rolled trait object.
type numeric interface {
	int32 | int64 | float32 | float64
}

func dtypeOf[T numeric]() chunk.StorageType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return chunk.Int32
	case int64:
		return chunk.Int64
	case float32:
		return chunk.Float32
	case float64:
		return chunk.Float64
	default:
		panic("info: unsupported numeric type")
	}
}

// NumericSubParser handles a comma-separated multi-value INFO key of
// integer or floating-point type, for any of the four numeric storage
// types. The same implementation serves every width: the value/fill slice
// is generic over T, and conversion from the shared scratch registers
// (ParserContext.L for integers, .D for floats) is selected once via a
// type switch at construction, not on every value parsed.
type NumericSubParser[T numeric] struct {
	name        string
	number      int
	chunkLength int
	fill        T
	data        []T // flattened [row*number + valueIndex]
	toValue     func(ctx *vcf.ParserContext) (T, bool)
}

// NewNumericSubParser builds a sub-parser for INFO key name with the given
// cardinality and fill value.
func NewNumericSubParser[T numeric](name string, number int, chunkLength int, fill T) *NumericSubParser[T] {
	if number < 1 {
		number = 1
	}
	p := &NumericSubParser[T]{name: name, number: number, chunkLength: chunkLength, fill: fill}
	p.toValue = converter[T]()
	p.alloc()
	return p
}

// converter resolves, once, which of TempToLong/TempToDouble this
// instantiation's T should read its parsed scalar from.
func converter[T numeric]() func(ctx *vcf.ParserContext) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case int32, int64:
		return func(ctx *vcf.ParserContext) (T, bool) {
			if !ctx.TempToLong() {
				return 0, false
			}
			return T(ctx.L), true
		}
	default:
		return func(ctx *vcf.ParserContext) (T, bool) {
			if !ctx.TempToDouble() {
				return 0, false
			}
			return T(ctx.D), true
		}
	}
}

func (p *NumericSubParser[T]) alloc() {
	p.data = make([]T, p.chunkLength*p.number)
	for i := range p.data {
		p.data[i] = p.fill
	}
}

// ParseValue reads comma-separated values up to (not including)
// SEMICOLON/TAB/NEWLINE/0, storing each within the declared cardinality and
// dropping (with a warning) any excess.
func (p *NumericSubParser[T]) ParseValue(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	valueIndex := 0
	dropped := false

	flush := func() error {
		if valueIndex >= p.number {
			if len(ctx.Temp()) > 0 {
				dropped = true
			}
			return nil
		}
		if len(ctx.Temp()) == 0 {
			return nil
		}
		v, ok := p.toValue(ctx)
		if !ok {
			ctx.Warn(p.name, "could not parse value")
			return nil
		}
		p.data[row*p.number+valueIndex] = v
		return nil
	}

	ctx.TempClear()
	for {
		switch {
		case ctx.C == vcf.Comma:
			if err := flush(); err != nil {
				return err
			}
			valueIndex++
			ctx.TempClear()
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Semicolon || ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			if err := flush(); err != nil {
				return err
			}
			if dropped {
				ctx.Warn(p.name, "more values than declared cardinality, extra values dropped")
			}
			ctx.TempClear()
			return nil
		default:
			ctx.TempAppend(ctx.C)
			if err := ctx.Getc(); err != nil {
				return err
			}
		}
	}
}

func (p *NumericSubParser[T]) FreezeAll(length int) []chunk.Array {
	flat := make([]T, length*p.number)
	copy(flat, p.data[:length*p.number])
	return []chunk.Array{{
		Name:   p.name,
		Dtype:  dtypeOf[T](),
		Length: length,
		Number: p.number,
		Data:   flat,
	}}
}

func (p *NumericSubParser[T]) ResetAll() {
	p.alloc()
}

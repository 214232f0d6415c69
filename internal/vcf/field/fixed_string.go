// Package field implements the fixed-column parsers: CHROM, POS, ID, REF,
// ALT, QUAL. Each owns a slice of the output chunk and knows its own type,
// per spec.md §4.4.
package field

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// FixedString backs CHROM, ID, and REF: a chunk_length x itemsize
// fixed-width byte-string column. Overlong values are silently truncated;
// the remainder of the source token is still consumed.
type FixedString struct {
	name        string
	itemSize    int
	chunkLength int
	data        [][]byte
}

// NewFixedString allocates a FixedString column for the given canonical
// field name (e.g. "variants/CHROM").
func NewFixedString(name string, itemSize, chunkLength int) *FixedString {
	s := &FixedString{name: name, itemSize: itemSize, chunkLength: chunkLength}
	s.alloc()
	return s
}

func (s *FixedString) alloc() {
	s.data = make([][]byte, s.chunkLength)
	for i := range s.data {
		s.data[i] = make([]byte, 0, s.itemSize)
	}
}

// Parse reads bytes up to (not including) TAB/NEWLINE/0, copying the first
// ItemSize of them into the current row's slot.
func (s *FixedString) Parse(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	out := s.data[row][:0]
	truncated := false
	for ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
		if len(out) < s.itemSize {
			out = append(out, ctx.C)
		} else {
			truncated = true
		}
		if err := ctx.Getc(); err != nil {
			return err
		}
	}
	s.data[row] = out
	if truncated {
		ctx.Warn(s.name, "value truncated to declared item size")
	}
	return nil
}

// RefLen reports the byte length stored for row, used by the driver to
// compute the supplementary variants/svlen field when this FixedString
// backs REF.
func (s *FixedString) RefLen(row int) int {
	return len(s.data[row])
}

func (s *FixedString) FreezeAll(length int) []chunk.Array {
	frozen := make([][]byte, length)
	for i := 0; i < length; i++ {
		b := make([]byte, s.itemSize)
		copy(b, s.data[i])
		frozen[i] = b
	}
	return []chunk.Array{{
		Name:     s.name,
		Dtype:    chunk.FixedBytes,
		Length:   length,
		Number:   1,
		ItemSize: s.itemSize,
		Data:     frozen,
	}}
}

func (s *FixedString) ResetAll() {
	s.alloc()
}

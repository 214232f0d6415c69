package field

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// Alt backs the ALT column: a chunk_length x number x itemsize array.
// Values past the declared cardinality are silently dropped; overlong
// strings are truncated. A bare "." is left as all-fill (no alternate
// alleles).
type Alt struct {
	number      int
	itemSize    int
	chunkLength int
	data        [][][]byte // [row][altIndex] -> bytes (len <= itemSize)
	counts      []int      // number of alt values actually seen per row, capped at number
}

// NewAlt allocates an ALT column with the given cardinality and item size.
func NewAlt(number, itemSize, chunkLength int) *Alt {
	if number < 1 {
		number = 1
	}
	a := &Alt{number: number, itemSize: itemSize, chunkLength: chunkLength}
	a.alloc()
	return a
}

func (a *Alt) alloc() {
	a.data = make([][][]byte, a.chunkLength)
	a.counts = make([]int, a.chunkLength)
	for i := range a.data {
		row := make([][]byte, a.number)
		for j := range row {
			row[j] = make([]byte, 0, a.itemSize)
		}
		a.data[i] = row
	}
}

// Parse reads comma-separated alternate alleles up to (not including)
// TAB/NEWLINE/0. A leading "." with nothing else is treated as an explicit
// missing value (no alternates recorded).
func (a *Alt) Parse(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	for j := 0; j < a.number; j++ {
		a.data[row][j] = a.data[row][j][:0]
	}
	altIndex := 0
	itemLen := 0
	dropped := false
	truncated := false
	ctx.TempClear()

	for ctx.C != vcf.Tab && !vcf.IsRecordEnd(ctx.C) {
		ctx.TempAppend(ctx.C)
		switch ctx.C {
		case vcf.Comma:
			altIndex++
			itemLen = 0
		default:
			if altIndex < a.number {
				if itemLen < a.itemSize {
					a.data[row][altIndex] = append(a.data[row][altIndex], ctx.C)
					itemLen++
				} else {
					truncated = true
				}
			} else {
				dropped = true
			}
		}
		if err := ctx.Getc(); err != nil {
			return err
		}
	}

	raw := ctx.Temp()
	if len(raw) == 1 && raw[0] == vcf.Dot {
		// Explicit missing value: leave the row at its fill (empty).
		a.data[row][0] = a.data[row][0][:0]
		a.counts[row] = 0
	} else {
		count := altIndex + 1
		if count > a.number {
			count = a.number
		}
		a.counts[row] = count
	}

	if truncated {
		ctx.Warn("variants/ALT", "value truncated to declared item size")
	}
	if dropped {
		ctx.Warn("variants/ALT", "more alternate alleles than declared cardinality, extra values dropped")
	}
	return nil
}

// AltCount reports how many alternate alleles were actually stored for
// row (capped at the declared cardinality), used for variants/numalt.
func (a *Alt) AltCount(row int) int {
	return a.counts[row]
}

// AltLen reports the byte length of the first alternate allele stored for
// row, used for variants/svlen. Returns 0 if there is no alternate allele.
func (a *Alt) AltLen(row int) int {
	if a.counts[row] == 0 {
		return 0
	}
	return len(a.data[row][0])
}

func (a *Alt) FreezeAll(length int) []chunk.Array {
	flat := make([][]byte, length*a.number)
	for i := 0; i < length; i++ {
		for j := 0; j < a.number; j++ {
			b := make([]byte, a.itemSize)
			copy(b, a.data[i][j])
			flat[i*a.number+j] = b
		}
	}
	return []chunk.Array{{
		Name:     "variants/ALT",
		Dtype:    chunk.FixedBytes,
		Length:   length,
		Number:   a.number,
		ItemSize: a.itemSize,
		Data:     flat,
	}}
}

func (a *Alt) ResetAll() {
	a.alloc()
}

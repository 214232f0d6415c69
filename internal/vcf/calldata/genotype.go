package calldata

import (
	"github.com/inodb/vcfx/internal/chunk"
	"github.com/inodb/vcfx/internal/vcf"
)

// gtStorage is the constraint satisfied by every allele storage width a GT
// sub-parser specializes over: smaller-ploidy/low-allele-count genomes fit
// in int8, large multi-allelic ones need wider storage. Kept distinct from
// the INFO/calldata numeric constraint since GT never stores floats.
type gtStorage interface {
	int8 | int16 | int32 | int64
}

func gtDtypeOf[T gtStorage]() chunk.StorageType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return chunk.Int8
	case int16:
		return chunk.Int16
	case int32:
		return chunk.Int32
	case int64:
		return chunk.Int64
	default:
		panic("calldata: unsupported genotype storage type")
	}
}

// GenotypeSubParser backs the GT FORMAT key: ploidy-many allele indices
// separated by '/' (unphased) or '|' (phased), plus a companion
// "is_phased" column. A missing allele ('.') leaves its slot at fill (-1).
type GenotypeSubParser[T gtStorage] struct {
	name        string
	ploidy      int
	chunkLength int
	nSamples    int
	fill        T
	alleles     []T    // flattened [(row*nSamples+sample)*ploidy + alleleIndex]
	phased      []bool // flattened [row*nSamples + sample]
}

// NewGenotypeSubParser builds the GT sub-parser for the given ploidy.
func NewGenotypeSubParser[T gtStorage](name string, ploidy, chunkLength, nSamples int) *GenotypeSubParser[T] {
	if ploidy < 1 {
		ploidy = 1
	}
	p := &GenotypeSubParser[T]{name: name, ploidy: ploidy, chunkLength: chunkLength, nSamples: nSamples, fill: -1}
	p.alloc()
	return p
}

func (p *GenotypeSubParser[T]) alloc() {
	p.alleles = make([]T, p.chunkLength*p.nSamples*p.ploidy)
	for i := range p.alleles {
		p.alleles[i] = p.fill
	}
	p.phased = make([]bool, p.chunkLength*p.nSamples)
}

// ParseSubfield reads ploidy-many '/'- or '|'-separated allele indices up
// to (not including) COLON/TAB/NEWLINE/0. The genotype is recorded phased
// only if every separator encountered was '|' (a single '/' anywhere makes
// the whole call unphased, matching the VCF spec's all-or-nothing phasing
// convention).
func (p *GenotypeSubParser[T]) ParseSubfield(ctx *vcf.ParserContext) error {
	row := ctx.ChunkVariantIndex
	sample := ctx.SampleIndex
	base := (row*p.nSamples + sample) * p.ploidy

	alleleIndex := 0
	sawSeparator := false
	allPiped := true
	dropped := false

	flush := func() {
		if alleleIndex >= p.ploidy {
			if len(ctx.Temp()) > 0 {
				dropped = true
			}
			return
		}
		if len(ctx.Temp()) == 0 {
			return
		}
		if !ctx.TempToLong() {
			ctx.Warn(p.name, "could not parse allele index")
			return
		}
		p.alleles[base+alleleIndex] = T(ctx.L)
	}

	ctx.TempClear()
	for {
		switch {
		case ctx.C == vcf.Slash || ctx.C == vcf.Pipe:
			flush()
			sawSeparator = true
			if ctx.C == vcf.Slash {
				allPiped = false
			}
			alleleIndex++
			ctx.TempClear()
			if err := ctx.Getc(); err != nil {
				return err
			}
		case ctx.C == vcf.Colon || ctx.C == vcf.Tab || vcf.IsRecordEnd(ctx.C):
			flush()
			if dropped {
				ctx.Warn(p.name, "more alleles than declared ploidy, extra values dropped")
			}
			p.phased[row*p.nSamples+sample] = !sawSeparator || allPiped
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

func (p *GenotypeSubParser[T]) FreezeAll(length int) []chunk.Array {
	flatAlleles := make([]T, length*p.nSamples*p.ploidy)
	copy(flatAlleles, p.alleles[:length*p.nSamples*p.ploidy])
	flatPhased := make([]bool, length*p.nSamples)
	copy(flatPhased, p.phased[:length*p.nSamples])

	return []chunk.Array{
		{
			Name:     p.name,
			Dtype:    gtDtypeOf[T](),
			Length:   length,
			Number:   p.ploidy,
			NSamples: p.nSamples,
			Ploidy:   p.ploidy,
			Data:     flatAlleles,
		},
		{
			Name:     "calldata/is_phased",
			Dtype:    chunk.Bool,
			Length:   length,
			Number:   1,
			NSamples: p.nSamples,
			Data:     flatPhased,
		},
	}
}

func (p *GenotypeSubParser[T]) ResetAll() {
	p.alloc()
}

package vcf

import "github.com/inodb/vcfx/internal/chunk"

// computedInt32 is the array owner backing the two supplementary fields
// carried over from the original implementation's "computed fields":
// variants/numalt and variants/svlen. Neither is parsed from any single
// token; both are derived from REF/ALT immediately after ALT is parsed, so
// they are driven directly by the Driver rather than through the normal
// FieldParser.Parse dispatch.
type computedInt32 struct {
	name        string
	chunkLength int
	fill        int32
	data        []int32
}

func newComputedInt32(name string, chunkLength int, fill int32) *computedInt32 {
	c := &computedInt32{name: name, chunkLength: chunkLength, fill: fill}
	c.alloc()
	return c
}

func (c *computedInt32) alloc() {
	c.data = make([]int32, c.chunkLength)
	for i := range c.data {
		c.data[i] = c.fill
	}
}

func (c *computedInt32) set(row int, v int32) {
	c.data[row] = v
}

func (c *computedInt32) FreezeAll(length int) []chunk.Array {
	return []chunk.Array{{
		Name:   c.name,
		Dtype:  chunk.Int32,
		Length: length,
		Number: 1,
		Data:   append([]int32(nil), c.data[:length]...),
	}}
}

func (c *computedInt32) ResetAll() {
	c.alloc()
}

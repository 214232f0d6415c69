// Package chunk defines the fixed-shape array types emitted by the VCF
// parser and the Chunk container that groups them by canonical field name.
package chunk

import "fmt"

// StorageType enumerates the scalar types a field may be declared with.
// It mirrors the "Storage types supported" list in the parser's external
// interface: signed integers of 8/16/32/64 bits, 32/64-bit floats, a
// boolean (used for flags and FILTER columns), and a fixed-width byte
// string.
type StorageType int

const (
	Int8 StorageType = iota
	Int16
	Int32
	Int64
	Float32
	Float64
	Bool
	FixedBytes
)

func (t StorageType) String() string {
	switch t {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case FixedBytes:
		return "fixed_bytes"
	default:
		return fmt.Sprintf("storage_type(%d)", int(t))
	}
}

// Array is one frozen, fixed-shape output array: a copy of a field's
// in-progress storage taken at the time of freezing, annotated with
// enough shape metadata for a caller to reinterpret it without consulting
// the header configuration again.
//
// Shape is always of the form:
//
//	(Length,)                        when Number == 1 and NSamples == 0
//	(Length, Number)                 when Number > 1  and NSamples == 0
//	(Length, NSamples, Ploidy)       for calldata/GT
//	(Length, NSamples, Number)       for other calldata fields
//
// Squeezed trailing dimensions of size 1 are never materialized in Data;
// Number/Ploidy record the logical (pre-squeeze) cardinality so a sink can
// tell a scalar field from a cardinality-1 multi-value field if it cares.
type Array struct {
	Name     string
	Dtype    StorageType
	Length   int
	Number   int // declared cardinality; 0 for FILTER boolean columns
	NSamples int // > 0 for calldata/* fields
	Ploidy   int // > 0 only for calldata/GT
	ItemSize int // byte-string width, for Dtype == FixedBytes

	// Data holds the backing slice. Its concrete type is determined by
	// Dtype: []int8, []int16, []int32, []int64, []float32, []float64,
	// []bool, or [][]byte (one []byte of length ItemSize per logical
	// string slot, flattened row-major in the same order as any other
	// dtype's flat slice).
	Data any
}

// Squeeze reports whether the trailing cardinality dimension collapses,
// i.e. Number <= 1 and this is not a per-sample field with Ploidy > 1.
func (a Array) Squeeze() bool {
	return a.Number <= 1
}

// Chunk is a batch of exactly Len consecutive records, materialized as one
// Array per requested field. A Chunk is only ever handed to a caller once
// it holds the true length of the batch (chunk_length for a full chunk, or
// the remainder for the final partial chunk of a stream).
type Chunk struct {
	Len    int
	Fields map[string]Array
}

// Get returns the named array and whether it was present.
func (c *Chunk) Get(name string) (Array, bool) {
	a, ok := c.Fields[name]
	return a, ok
}

package sink

import (
	"fmt"
	"os"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/multierr"

	"github.com/inodb/vcfx/internal/chunk"
)

// Arrow builds one arrow.Record per emitted chunk.Chunk and, if a path
// was given, streams it to an Arrow IPC file. This promotes arrow-go
// (already pulled in transitively via go-duckdb) into a directly
// exercised dependency: it is the natural in-memory columnar
// representation for exactly the kind of fixed-shape array chunk.Chunk
// already is.
type Arrow struct {
	pool    memory.Allocator
	columns []string
	schema  *arrow.Schema

	f      *os.File
	writer *ipc.FileWriter

	records []arrow.Record
}

// NewArrow builds an Arrow sink. If path is non-empty, every chunk's
// record is additionally streamed to an Arrow IPC file at that path.
func NewArrow(path string) (*Arrow, error) {
	a := &Arrow{pool: memory.NewGoAllocator()}
	if path == "" {
		return a, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create arrow ipc file: %w", err)
	}
	a.f = f
	return a, nil
}

// Records returns every record built so far (only populated when no IPC
// path was configured, or in addition to it -- records are kept in memory
// either way so a caller like "vcfx extract --sink=arrow" can report row
// counts without re-reading the IPC file).
func (a *Arrow) Records() []arrow.Record {
	return a.records
}

func (a *Arrow) buildSchema(c *chunk.Chunk) {
	if a.schema != nil {
		return
	}
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	a.columns = names

	fields := make([]arrow.Field, len(names))
	for i, name := range names {
		fields[i] = arrow.Field{Name: columnName(name), Type: arrowType(c.Fields[name]), Nullable: false}
	}
	a.schema = arrow.NewSchema(fields, nil)
}

func arrowType(field chunk.Array) arrow.DataType {
	var base arrow.DataType
	switch field.Dtype {
	case chunk.Int8:
		base = arrow.PrimitiveTypes.Int8
	case chunk.Int16:
		base = arrow.PrimitiveTypes.Int16
	case chunk.Int32:
		base = arrow.PrimitiveTypes.Int32
	case chunk.Int64:
		base = arrow.PrimitiveTypes.Int64
	case chunk.Float32:
		base = arrow.PrimitiveTypes.Float32
	case chunk.Float64:
		base = arrow.PrimitiveTypes.Float64
	case chunk.Bool:
		base = arrow.FixedWidthTypes.Boolean
	case chunk.FixedBytes:
		base = &arrow.FixedSizeBinaryType{ByteWidth: field.ItemSize}
	default:
		base = arrow.BinaryTypes.String
	}

	width := field.Number
	if width < 1 {
		width = 1
	}
	if field.NSamples > 1 {
		width *= field.NSamples
	}
	if width == 1 {
		return base
	}
	return arrow.FixedSizeListOf(int32(width), base)
}

// Write assembles one arrow.Record from c's fields, using one typed
// builder per field (a FixedSizeListBuilder wrapping the scalar builder
// for Number/NSamples > 1 fields), appends it to the in-memory set, and,
// if an IPC path was configured, writes it out immediately.
func (a *Arrow) Write(c *chunk.Chunk) error {
	a.buildSchema(c)

	builders := make([]array.Builder, len(a.columns))
	for i := range a.columns {
		builders[i] = array.NewBuilder(a.pool, a.schema.Field(i).Type)
		defer builders[i].Release()
	}

	for row := 0; row < c.Len; row++ {
		for i, name := range a.columns {
			appendValue(builders[i], c.Fields[name], row)
		}
	}

	cols := make([]arrow.Array, len(builders))
	for i, b := range builders {
		cols[i] = b.NewArray()
		defer cols[i].Release()
	}

	rec := array.NewRecord(a.schema, cols, int64(c.Len))
	a.records = append(a.records, rec)

	if a.f != nil {
		if a.writer == nil {
			w, err := ipc.NewFileWriter(a.f, ipc.WithSchema(a.schema), ipc.WithAllocator(a.pool))
			if err != nil {
				return fmt.Errorf("open arrow ipc writer: %w", err)
			}
			a.writer = w
		}
		if err := a.writer.Write(rec); err != nil {
			return fmt.Errorf("write arrow record: %w", err)
		}
	}
	return nil
}

// appendValue appends row's contribution to field into b, unwrapping into
// a FixedSizeListBuilder's value builder when field carries more than one
// value per row.
func appendValue(b array.Builder, field chunk.Array, row int) {
	width := field.Number
	if width < 1 {
		width = 1
	}
	if field.NSamples > 1 {
		width *= field.NSamples
	}

	target := b
	if lb, ok := b.(*array.FixedSizeListBuilder); ok {
		lb.Append(true)
		target = lb.ValueBuilder()
	}

	lo := row * width
	for i := 0; i < width; i++ {
		appendScalar(target, field, lo+i)
	}
}

func appendScalar(b array.Builder, field chunk.Array, idx int) {
	switch data := field.Data.(type) {
	case []int8:
		b.(*array.Int8Builder).Append(data[idx])
	case []int16:
		b.(*array.Int16Builder).Append(data[idx])
	case []int32:
		b.(*array.Int32Builder).Append(data[idx])
	case []int64:
		b.(*array.Int64Builder).Append(data[idx])
	case []float32:
		b.(*array.Float32Builder).Append(data[idx])
	case []float64:
		b.(*array.Float64Builder).Append(data[idx])
	case []bool:
		b.(*array.BooleanBuilder).Append(data[idx])
	case [][]byte:
		b.(*array.FixedSizeBinaryBuilder).Append(data[idx])
	}
}

// Close closes the IPC writer (if any) and the underlying file, combining
// both failures rather than dropping one silently.
func (a *Arrow) Close() error {
	var err error
	if a.writer != nil {
		err = multierr.Append(err, a.writer.Close())
	}
	if a.f != nil {
		err = multierr.Append(err, a.f.Close())
	}
	return err
}

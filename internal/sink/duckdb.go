package sink

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vcfx/internal/chunk"
)

// DuckDB appends every emitted chunk's rows into a single "variants"
// table, one row per variant, whose column set is derived from the first
// chunk's field names. Grounded in internal/duckdb.Store's schema-on-open
// pattern and internal/duckdb/variants.go's Appender-based bulk load.
type DuckDB struct {
	db      *sql.DB
	path    string
	columns []string // canonical field names, fixed order, set on first Write
}

// OpenDuckDB opens or creates a DuckDB database at path. An empty path
// opens an in-memory database.
func OpenDuckDB(path string) (*DuckDB, error) {
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sink directory: %w", err)
			}
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return &DuckDB{db: db, path: path}, nil
}

// ensureSchema creates the variants table the first time Write is called,
// deriving one column per field present in c, in sorted field-name order.
func (s *DuckDB) ensureSchema(c *chunk.Chunk) error {
	if s.columns != nil {
		return nil
	}

	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]string, 0, len(names))
	for _, name := range names {
		defs = append(defs, fmt.Sprintf("%s %s", columnName(name), duckdbType(c.Fields[name])))
	}

	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS variants (%s)", joinComma(defs))
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.columns = names
	return nil
}

func duckdbType(a chunk.Array) string {
	base := ""
	switch a.Dtype {
	case chunk.Int8, chunk.Int16, chunk.Int32:
		base = "INTEGER"
	case chunk.Int64:
		base = "BIGINT"
	case chunk.Float32, chunk.Float64:
		base = "DOUBLE"
	case chunk.Bool:
		base = "BOOLEAN"
	case chunk.FixedBytes:
		base = "VARCHAR"
	default:
		base = "VARCHAR"
	}
	if a.Number > 1 || a.NSamples > 1 {
		return base + "[]"
	}
	return base
}

// Write appends c's rows to the variants table using the Appender API,
// mirroring internal/duckdb/variants.go's WriteVariantResults.
func (s *DuckDB) Write(c *chunk.Chunk) error {
	if err := s.ensureSchema(c); err != nil {
		return err
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variants")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for row := 0; row < c.Len; row++ {
		values := make([]driver.Value, len(s.columns))
		for i, name := range s.columns {
			values[i] = rowValue(c.Fields[name], row)
		}
		if err := appender.AppendRow(values...); err != nil {
			return fmt.Errorf("append row %d: %w", row, err)
		}
	}
	return appender.Flush()
}

// rowValue extracts row's contribution to field a, as either a scalar or
// (for Number>1 / NSamples>1 fields) a slice, for DuckDB's LIST columns.
func rowValue(a chunk.Array, row int) any {
	width := a.Number
	if width < 1 {
		width = 1
	}
	if a.NSamples > 1 {
		width *= a.NSamples
	}

	if width == 1 {
		switch data := a.Data.(type) {
		case []int8:
			return data[row]
		case []int16:
			return data[row]
		case []int32:
			return data[row]
		case []int64:
			return data[row]
		case []float32:
			return data[row]
		case []float64:
			return data[row]
		case []bool:
			return data[row]
		case [][]byte:
			return string(data[row])
		}
		return nil
	}

	lo, hi := row*width, (row+1)*width
	switch data := a.Data.(type) {
	case []int8:
		return append([]int8(nil), data[lo:hi]...)
	case []int16:
		return append([]int16(nil), data[lo:hi]...)
	case []int32:
		return append([]int32(nil), data[lo:hi]...)
	case []int64:
		return append([]int64(nil), data[lo:hi]...)
	case []float32:
		return append([]float32(nil), data[lo:hi]...)
	case []float64:
		return append([]float64(nil), data[lo:hi]...)
	case []bool:
		return append([]bool(nil), data[lo:hi]...)
	case [][]byte:
		out := make([]string, width)
		for i, b := range data[lo:hi] {
			out[i] = string(b)
		}
		return out
	}
	return nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// Close closes the underlying connection pool.
func (s *DuckDB) Close() error {
	return s.db.Close()
}

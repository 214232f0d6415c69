// Package sink implements the downstream storage collaborators the core
// parser's Non-goals leave external: a DuckDB table writer and an Arrow
// in-memory/IPC writer, both consuming chunk.Chunk values off a Driver's
// output channel.
package sink

import "github.com/inodb/vcfx/internal/chunk"

// Sink is the shape every chunk consumer in this package implements.
type Sink interface {
	Write(c *chunk.Chunk) error
	Close() error
}

// columnName turns a canonical chunk field name ("variants/POS",
// "calldata/GT") into a SQL/Arrow-safe identifier.
func columnName(field string) string {
	out := make([]byte, len(field))
	for i := 0; i < len(field); i++ {
		if field[i] == '/' {
			out[i] = '_'
		} else {
			out[i] = field[i]
		}
	}
	return string(out)
}

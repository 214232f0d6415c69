// Package transport opens plain or gzip-compressed VCF files and hands the
// core parser a plain io.Reader, keeping "I/O transport is external"
// true at the internal/vcf package boundary while still shipping the
// feature at the module level.
package transport

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

// gzipMagic is the two-byte gzip header signature.
var gzipMagic = [2]byte{0x1f, 0x8b}

// Open opens path (or stdin, if path is "-") and returns a plain
// io.Reader over its contents, transparently decompressing gzip input
// detected by its magic bytes. The returned close func releases every
// resource Open acquired (the underlying file, and the gzip reader if
// one was created); it must be called exactly once.
func Open(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return bufio.NewReader(os.Stdin), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	br := bufio.NewReader(f)
	peek, err := br.Peek(2)
	if err != nil && err != io.EOF {
		f.Close()
		return nil, nil, fmt.Errorf("sniff %s: %w", path, err)
	}

	if len(peek) == 2 && peek[0] == gzipMagic[0] && peek[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("open gzip reader for %s: %w", path, err)
		}
		closer := func() error {
			gzErr := gz.Close()
			fErr := f.Close()
			if gzErr != nil {
				return gzErr
			}
			return fErr
		}
		return gz, closer, nil
	}

	return br, f.Close, nil
}

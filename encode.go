package hashledger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// This file persists a chain as JSONL, in a way that is still human-readable
// and git-friendly: one header line, then one block per line.
//
// Persistence is layered on top of Blocks and Restore: decoding never
// recomputes a hash, so that an edited file is reported by Verify.

// maxLineSize bounds a single JSONL line (a block with a long description).
const maxLineSize = 1 << 20

// header is the first line of a JSONL chain file.
type header struct {
	Scheme   string `json:"scheme"`
	Currency string `json:"currency"`
}

// EncodeHashChain writes the chain as JSONL to w.
func EncodeHashChain(w io.Writer, c *HashChain) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(header{Scheme: c.Scheme().String(), Currency: c.Currency()}); err != nil {
		return fmt.Errorf("%w: chain header: %v", ErrEncoding, err)
	}
	for _, b := range c.Blocks() {
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("%w: block %d: %v", ErrEncoding, b.Index, err)
		}
	}
	return nil
}

// DecodeHashChain reads a chain written by EncodeHashChain.
//
// A file without header line is read with the default scheme and currency.
func DecodeHashChain(r io.Reader) (*HashChain, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		opts   []Option
		blocks []Block
		first  = true
		lineNo = 0
	)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}

		if first {
			first = false
			var probe map[string]json.RawMessage
			if err := json.Unmarshal(line, &probe); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrEncoding, lineNo, err)
			}
			if _, isBlock := probe["hash"]; !isBlock {
				var h header
				if err := json.Unmarshal(line, &h); err != nil {
					return nil, fmt.Errorf("%w: line %d: invalid header: %v", ErrEncoding, lineNo, err)
				}
				scheme, err := ParseScheme(h.Scheme)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrEncoding, lineNo, err)
				}
				opts = append(opts, WithScheme(scheme), WithCurrency(h.Currency))
				continue
			}
			log.Printf("warning, chain file has no header line, assuming %s digests in %s", Framed, DefaultCurrency)
		}

		var b Block
		if err := json.Unmarshal(line, &b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrEncoding, lineNo, err)
		}
		blocks = append(blocks, b)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}

	return Restore(blocks, opts...)
}

// LoadFile reads the chain file at path. A missing file is reported with an
// error wrapping fs.ErrNotExist.
func LoadFile(path string) (*HashChain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := DecodeHashChain(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode chain file %q: %w", path, err)
	}
	return c, nil
}

// SaveFile writes c to path. The file is replaced atomically: c is written to
// a temporary file in the same directory first, then renamed.
func SaveFile(path string, c *HashChain) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create chain file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := EncodeHashChain(tmp, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not write chain file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("could not replace chain file %q: %w", path, err)
	}
	return nil
}

// Package provider supplies records to collections and instances
// asynchronously.
package provider

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/tessera/internal/ordered"
	tesseraerrors "github.com/alexisbeaulieu97/tessera/pkg/errors"
)

// Callback receives the fetched records, or the error that stopped the fetch.
type Callback func(records []map[string]any, err error)

// Provider fetches records and reports them through callback exactly once.
// The callback may run on any goroutine.
type Provider interface {
	Fetch(ctx context.Context, callback Callback)
}

// Static serves records held in memory.
type Static struct {
	Records []map[string]any
}

// Fetch reports a copy of the records.
func (s Static) Fetch(ctx context.Context, callback Callback) {
	if err := ctx.Err(); err != nil {
		callback(nil, err)
		return
	}
	out := make([]map[string]any, len(s.Records))
	for i, rec := range s.Records {
		cp := make(map[string]any, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out[i] = cp
	}
	callback(out, nil)
}

// YAMLFile reads a YAML sequence of mappings from disk in a goroutine.
type YAMLFile struct {
	Path string
}

// Fetch reads and decodes the file.
func (f YAMLFile) Fetch(ctx context.Context, callback Callback) {
	go func() {
		records, err := f.read()
		if ctxErr := ctx.Err(); ctxErr != nil {
			callback(nil, ctxErr)
			return
		}
		callback(records, err)
	}()
}

func (f YAMLFile) read() ([]map[string]any, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return DecodeRecords(f.Path, data)
}

// DecodeRecords decodes a YAML document holding either a sequence of mappings
// or a single mapping.
func DecodeRecords(path string, data []byte) ([]map[string]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, tesseraerrors.NewParseError(path, 0, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	value, err := ordered.FromYAML(&doc)
	if err != nil {
		return nil, tesseraerrors.NewParseError(path, doc.Line, err)
	}
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case ordered.Map:
		return []map[string]any{typed.ToMap()}, nil
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for i, item := range typed {
			m, ok := item.(ordered.Map)
			if !ok {
				return nil, tesseraerrors.NewParseError(path, 0, fmt.Errorf("record %d is %T, want a mapping", i, item))
			}
			out = append(out, m.ToMap())
		}
		return out, nil
	default:
		return nil, tesseraerrors.NewParseError(path, 0, fmt.Errorf("document is %T, want a sequence of mappings", value))
	}
}

// Package format defines the interface every network reader implements and
// a small registry keyed by file extension.
package format

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"tlgen/internal/network"
)

// Reader builds a network from a textual circuit description.
type Reader interface {
	// Name returns the reader's canonical short identifier (e.g. "bench").
	Name() string

	// Extensions returns the file extensions handled, with the leading dot.
	Extensions() []string

	// Read parses r. name becomes the network name.
	Read(r io.Reader, name string) (*network.Network, error)
}

// Registry maps reader names to readers.
type Registry map[string]Reader

// NewRegistry indexes readers by name.
func NewRegistry(readers ...Reader) Registry {
	reg := make(Registry, len(readers))
	for _, r := range readers {
		reg[r.Name()] = r
	}
	return reg
}

// Names returns the registered reader names, sorted.
func (reg Registry) Names() []string {
	names := make([]string, 0, len(reg))
	for name := range reg {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForPath picks the reader for path. overrides maps an extension (".txt")
// to a reader name and wins over the readers' own extension lists.
func (reg Registry) ForPath(path string, overrides map[string]string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := overrides[ext]; ok {
		r, ok := reg[name]
		if !ok {
			return nil, fmt.Errorf("extension %q mapped to unknown format %q", ext, name)
		}
		return r, nil
	}
	for _, name := range reg.Names() {
		for _, e := range reg[name].Extensions() {
			if e == ext {
				return reg[name], nil
			}
		}
	}
	return nil, fmt.Errorf("no reader for %q (known formats: %s)", path, strings.Join(reg.Names(), ", "))
}

// NetworkName derives a network name from a file path: the base name
// without extension.
func NetworkName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

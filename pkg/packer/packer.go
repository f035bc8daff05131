// Package packer assembles the final ordered pack from a resolved module
// graph and emits it in one of the supported output formats.
package packer

import (
	"fmt"

	"github.com/pypack-dev/pypack/pkg/graph"
)

// Record is one entry of the output pack. Consumers execute records
// strictly in sequence order inside the restricted host interpreter.
type Record struct {
	Name      string `json:"name"       yaml:"name"`
	IsPackage bool   `json:"is_package" yaml:"is_package"`
	Code      string `json:"code"       yaml:"code"`
}

// Transform rewrites one module's source text before emission. The
// obfuscate flag is forwarded from the caller's configuration; the
// transform decides what it means. A nil Transform passes text through.
type Transform func(source string, obfuscate bool) (string, error)

// Result is a successfully built pack plus the advisories collected while
// the graph was scanned.
type Result struct {
	Records    []Record
	Advisories []graph.Advisory
}

// Build orders the graph and produces the pack records, applying transform
// per module. Ordering failures (cycles) and transform failures abort the
// build; no partial pack is returned.
func Build(g *graph.ModuleGraph, transform Transform, obfuscate bool) (*Result, error) {
	ordered, err := g.Order()
	if err != nil {
		return nil, fmt.Errorf("order modules: %w", err)
	}

	records := make([]Record, 0, len(ordered))

	for _, module := range ordered {
		code := module.Content

		if transform != nil {
			transformed, transformErr := transform(code, obfuscate)
			if transformErr != nil {
				return nil, fmt.Errorf("transform %s: %w", module.Name, transformErr)
			}

			code = transformed
		}

		records = append(records, Record{
			Name:      module.Name,
			IsPackage: module.IsPackage,
			Code:      code,
		})
	}

	return &Result{Records: records, Advisories: g.Advisories()}, nil
}

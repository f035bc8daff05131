package graph

import (
	"errors"
	"strings"
)

// Sentinel errors for scan and resolution failures.
var (
	// ErrDiscovery marks a source file that existed at walk time but could
	// not be read. The whole run aborts; a partial pack would silently drop
	// dependency edges.
	ErrDiscovery = errors.New("unreadable source file")
)

// CycleError reports that the dependency graph is not acyclic. Cycle holds
// the full cycle as an ordered list of canonical module names.
type CycleError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Cycle, " -> ")
}

// AdvisoryKind classifies non-fatal conditions surfaced alongside a
// successful scan.
type AdvisoryKind string

// Advisory kinds.
const (
	// AdvisoryCollision: two distinct files derived the same canonical
	// name; the registry kept the last one.
	AdvisoryCollision AdvisoryKind = "naming-collision"
	// AdvisoryUnresolvedAlias: an import reference the resolver could not
	// map to a file shares its name with a real local module, so the
	// fallback edge silently points at that module.
	AdvisoryUnresolvedAlias AdvisoryKind = "unresolved-alias"
)

// Advisory is a warning-level condition. Advisories never fail the run;
// they are collected and returned with the result for caller inspection.
type Advisory struct {
	Kind    AdvisoryKind
	Name    string
	Message string
}

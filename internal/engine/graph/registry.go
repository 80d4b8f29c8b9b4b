// # internal/engine/graph/registry.go
package graph

import (
	"sort"
	"strings"

	"rapidscore/internal/engine/scanner"
)

// Registry is the project-wide procedure table, keyed by fully-qualified
// name, with a secondary index from lower-cased bare name to every fq name
// that shares it.
type Registry struct {
	byFQ   map[string]*scanner.Procedure
	order  []string
	byName map[string]map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		byFQ:   make(map[string]*scanner.Procedure),
		byName: make(map[string]map[string]bool),
	}
}

// Add registers p. A procedure already registered under the same fq name is
// replaced in place and Add reports true; the name keeps its original
// position in registration order.
func (r *Registry) Add(p *scanner.Procedure) bool {
	_, replaced := r.byFQ[p.FQName]
	r.byFQ[p.FQName] = p
	if !replaced {
		r.order = append(r.order, p.FQName)
	}

	bare := strings.ToLower(p.Name)
	set, ok := r.byName[bare]
	if !ok {
		set = make(map[string]bool)
		r.byName[bare] = set
	}
	set[p.FQName] = true
	return replaced
}

func (r *Registry) Get(fq string) (*scanner.Procedure, bool) {
	p, ok := r.byFQ[fq]
	return p, ok
}

func (r *Registry) Len() int {
	return len(r.order)
}

// FQNames returns every fq name in registration order.
func (r *Registry) FQNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Procedures returns the registered procedures in registration order.
func (r *Registry) Procedures() []*scanner.Procedure {
	out := make([]*scanner.Procedure, 0, len(r.order))
	for _, fq := range r.order {
		out = append(out, r.byFQ[fq])
	}
	return out
}

// Lookup returns the sorted fq names whose bare name equals name, ignoring case.
func (r *Registry) Lookup(name string) []string {
	set := r.byName[strings.ToLower(name)]
	out := make([]string, 0, len(set))
	for fq := range set {
		out = append(out, fq)
	}
	sort.Strings(out)
	return out
}

// HasName reports whether any procedure has the given bare name.
func (r *Registry) HasName(name string) bool {
	return len(r.byName[strings.ToLower(name)]) > 0
}

// BareNames returns the sorted lower-cased bare names.
func (r *Registry) BareNames() []string {
	out := make([]string, 0, len(r.byName))
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ByFile groups procedures by defining file. A procedure replaced by a later
// definition counts only for the file of that later definition.
func (r *Registry) ByFile() map[string][]*scanner.Procedure {
	out := make(map[string][]*scanner.Procedure)
	for _, fq := range r.order {
		p := r.byFQ[fq]
		out[p.File] = append(out[p.File], p)
	}
	return out
}

// IsEntryPoint reports whether p is a MAIN routine: bare name main or an fq
// name ending in ::main, ignoring case.
func IsEntryPoint(p *scanner.Procedure) bool {
	return strings.EqualFold(p.Name, "main") || strings.HasSuffix(strings.ToLower(p.FQName), "::main")
}

// EntryPoints returns the fq names of every registered MAIN routine in
// registration order.
func (r *Registry) EntryPoints() []string {
	var out []string
	for _, fq := range r.order {
		if IsEntryPoint(r.byFQ[fq]) {
			out = append(out, fq)
		}
	}
	return out
}

package graph

import (
	"reflect"
	"strconv"
	"testing"
)

func TestCallTree_Cycle(t *testing.T) {
	g := CallGraph{
		"M::Main": {"M::rA": true, "M::rB": true},
		"M::rA":   {"M::Main": true},
	}
	trees := CallTree(g, []string{"M::Main"})
	want := []TreeLine{
		{Depth: 0, Name: "M::Main"},
		{Depth: 1, Name: "M::rA"},
		{Depth: 2, Name: "M::Main"},
		{Depth: 2, Name: "M::Main", Cycle: true},
		{Depth: 1, Name: "M::rB"},
	}
	if len(trees) != 1 || !reflect.DeepEqual(trees[0], want) {
		t.Fatalf("expected %v, got %v", want, trees)
	}
}

func TestCallTree_SharedCalleeIsNotACycle(t *testing.T) {
	g := CallGraph{
		"M::Main": {"M::rA": true, "M::rB": true},
		"M::rA":   {"M::rC": true},
		"M::rB":   {"M::rC": true},
	}
	lines := CallTree(g, []string{"M::Main"})[0]
	for _, l := range lines {
		if l.Cycle {
			t.Fatalf("diamond must not be reported as a cycle: %v", lines)
		}
	}
	if len(lines) != 5 {
		t.Fatalf("expected rC under both parents, got %v", lines)
	}
}

func TestCallTree_DeepChain(t *testing.T) {
	g := CallGraph{}
	names := make([]string, 20000)
	for i := range names {
		names[i] = "M::r" + strconv.Itoa(i)
	}
	for i := 0; i < len(names)-1; i++ {
		g[names[i]] = map[string]bool{names[i+1]: true}
	}
	lines := CallTree(g, names[:1])[0]
	if len(lines) != len(names) {
		t.Fatalf("expected %d rows, got %d", len(names), len(lines))
	}
	if last := lines[len(lines)-1]; last.Depth != len(names)-1 {
		t.Fatalf("unexpected last depth %d", last.Depth)
	}
}

func TestTreeRoots(t *testing.T) {
	g := CallGraph{"M::rB": {"M::rA": true}, "M::rA": {"M::rC": true}}
	noMain := registryOf(proc("M", "m.mod", "rA"), proc("M", "m.mod", "rB"), proc("M", "m.mod", "rC"))
	if got := TreeRoots(noMain, g); !reflect.DeepEqual(got, []string{"M::rA", "M::rB"}) {
		t.Fatalf("expected all callers, got %v", got)
	}

	withMain := registryOf(proc("Z", "z.mod", "Main"), proc("A", "a.mod", "main"))
	if got := TreeRoots(withMain, g); !reflect.DeepEqual(got, []string{"A::main", "Z::Main"}) {
		t.Fatalf("expected sorted MAIN routines, got %v", got)
	}
}

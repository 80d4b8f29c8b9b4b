package formats

import (
	"rapidscore/internal/engine/graph"
	"rapidscore/internal/engine/scanner"
	"rapidscore/internal/engine/scoring"
)

func sampleGraph() (*graph.Registry, graph.CallGraph, graph.DepthMap) {
	reg := graph.NewRegistry()
	reg.Add(&scanner.Procedure{Module: "Main", File: "/p/Main.mod", Name: "main", FQName: "Main::main", Line: 3})
	reg.Add(&scanner.Procedure{Module: "Main", File: "/p/Main.mod", Name: "MoveHome", FQName: "Main::MoveHome", Line: 10})
	reg.Add(&scanner.Procedure{Module: "Tools", File: "/p/lib/Tools.sys", Name: "Orphan", FQName: "Tools::Orphan", Line: 4})
	g := graph.CallGraph{"Main::main": {"Main::MoveHome": true}}
	depths := graph.DepthMap{"Main::main": 0, "Main::MoveHome": 1}
	return reg, g, depths
}

func sampleFiles() []scoring.FileScore {
	return []scoring.FileScore{
		{
			Path:             "/p/Main.mod",
			TotalLines:       20,
			CodeLines:        14,
			CommentLines:     4,
			SimpleComplexity: 2,
			DepthComplexity:  2,
			MaxNesting:       1,
			CommentRatio:     0.2,
			NamingScore:      1,
			ProcCount:        2,
			UnusedVars:       []string{"unusedValue"},
			WaitTimeLines:    []int{12},
			Procedures: []scoring.ProcedureStatus{
				{FQName: "Main::main", Name: "main", Line: 3, Status: scoring.StatusEntryPoint},
				{FQName: "Main::MoveHome", Name: "MoveHome", Line: 10, Depth: 1, Status: scoring.StatusReachable},
			},
			Score: 92,
		},
		{
			Path:             "/p/lib/Tools.sys",
			TotalLines:       8,
			CodeLines:        6,
			SimpleComplexity: 1,
			DepthComplexity:  1,
			NamingScore:      0.5,
			BadWords:         []string{"qzx"},
			ProcCount:        1,
			Procedures: []scoring.ProcedureStatus{
				{FQName: "Tools::Orphan", Name: "Orphan", Line: 4, Depth: -1, Status: scoring.StatusUnreachable},
			},
			Unreachable: []string{"Orphan"},
			Score:       41,
		},
	}
}

// # internal/ui/report/surgical.go
package report

import (
	"rapidscore/internal/engine/scanner"
	"rapidscore/internal/engine/scoring"
	"rapidscore/internal/ui/report/formats"
)

// WaitTimeRadius is the number of lines shown on each side of a WaitTime call.
const WaitTimeRadius = 2

// WaitTimeBlocks re-reads every file with recorded WaitTime calls and
// returns each call with radius lines of context. Files without calls are
// left out; a file that can no longer be read yields a block with Error set.
func WaitTimeBlocks(files []scoring.FileScore, radius int) []formats.WaitTimeBlock {
	var blocks []formats.WaitTimeBlock
	for _, f := range files {
		if len(f.WaitTimeLines) == 0 {
			continue
		}
		block := formats.WaitTimeBlock{Path: f.Path}
		lines, err := scanner.ReadLines(f.Path)
		if err != nil {
			block.Error = err.Error()
			blocks = append(blocks, block)
			continue
		}
		for _, n := range f.WaitTimeLines {
			if n < 1 || n > len(lines) {
				continue
			}
			block.Calls = append(block.Calls, formats.WaitTimeCall{
				Line:    n,
				Context: buildContext(lines, n-1, radius),
			})
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// buildContext returns the lines within radius of hitIdx, clipped to the file.
func buildContext(lines []string, hitIdx, radius int) []formats.ContextLine {
	start := max(hitIdx-radius, 0)
	end := min(hitIdx+radius+1, len(lines))

	out := make([]formats.ContextLine, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, formats.ContextLine{
			Number: i + 1,
			Text:   lines[i],
			Hit:    i == hitIdx,
		})
	}
	return out
}

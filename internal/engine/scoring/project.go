package scoring

import (
	"math"
	"sort"
)

// ProjectSummary aggregates file scores for the whole analyzed folder.
type ProjectSummary struct {
	Files           int     `json:"files" yaml:"files"`
	TotalLines      int     `json:"total_lines" yaml:"total_lines"`
	TotalComplexity int     `json:"total_complexity" yaml:"total_complexity"` // flat + weighted, summed
	AvgComplexity   float64 `json:"avg_complexity" yaml:"avg_complexity"`     // mean flat complexity
	MeanScore       float64 `json:"mean_score" yaml:"mean_score"`
	Score           float64 `json:"score" yaml:"score"`
	UniqueVariables int     `json:"unique_variables" yaml:"unique_variables"`

	Unreachable int `json:"unreachable" yaml:"unreachable"`
	UnusedVars  int `json:"unused_vars" yaml:"unused_vars"`
	BadWords    int `json:"bad_words" yaml:"bad_words"`
	WaitTimes   int `json:"waittimes" yaml:"waittimes"`
}

// ProjectScore is the mean file score, capped at the mean of the worstCount
// lowest scores plus margin, so a handful of clean files cannot hide poor
// ones. No files yields 0.
func ProjectScore(scores []float64, worstCount int, margin float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	mean := meanOf(sorted)
	if worstCount < 1 {
		worstCount = 1
	}
	worst := sorted[:min(worstCount, len(sorted))]
	return math.Min(mean, meanOf(worst)+margin)
}

// Summarize builds the project summary of files.
func Summarize(files []FileScore, uniqueVariables int, w Weights) ProjectSummary {
	s := ProjectSummary{Files: len(files), UniqueVariables: uniqueVariables}
	scores := make([]float64, 0, len(files))
	flat := 0
	for _, f := range files {
		s.TotalLines += f.TotalLines
		s.TotalComplexity += f.SimpleComplexity + f.DepthComplexity
		flat += f.SimpleComplexity
		s.Unreachable += len(f.Unreachable)
		s.UnusedVars += len(f.UnusedVars)
		s.BadWords += len(f.BadWords)
		s.WaitTimes += len(f.WaitTimeLines)
		scores = append(scores, f.Score)
	}
	if len(files) > 0 {
		s.AvgComplexity = float64(flat) / float64(len(files))
		s.MeanScore = meanOf(scores)
	}
	s.Score = ProjectScore(scores, w.ProjectWorstCount, w.ProjectCapMargin)
	return s
}

// Band is the presentation class of a score.
type Band string

const (
	BandGood    Band = "good"
	BandWarning Band = "warning"
	BandPoor    Band = "poor"
)

// BandOf classifies score: at least 80 is good, at least 50 a warning.
func BandOf(score float64) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 50:
		return BandWarning
	default:
		return BandPoor
	}
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

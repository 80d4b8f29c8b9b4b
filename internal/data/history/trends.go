package history

import (
	"fmt"
	"math"
	"time"
)

// BuildTrendReport turns ordered snapshots into points carrying deltas to
// the previous run and a moving average of the score over window.
func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			RunID:            current.RunID,
			Timestamp:        current.Timestamp,
			Score:            current.Score,
			FileCount:        current.FileCount,
			TotalLines:       current.TotalLines,
			TotalComplexity:  current.TotalComplexity,
			UnreachableCount: current.UnreachableCount,
			UnusedVarCount:   current.UnusedVarCount,
			BadWordCount:     current.BadWordCount,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaScore = round2(current.Score - prev.Score)
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaLines = current.TotalLines - prev.TotalLines
			point.DeltaComplexity = current.TotalComplexity - prev.TotalComplexity
			point.DeltaUnreachable = current.UnreachableCount - prev.UnreachableCount
			point.DeltaUnusedVars = current.UnusedVarCount - prev.UnusedVarCount
			point.DeltaBadWords = current.BadWordCount - prev.BadWordCount
		}

		point.AvgScore = round2(movingAverage(snapshots, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		ProjectKey:    snapshots[0].ProjectKey,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func movingAverage(snapshots []Snapshot, index int, window time.Duration) float64 {
	if window <= 0 {
		return snapshots[index].Score
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var total float64
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		total += snapshots[i].Score
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package history

import (
	"time"

	"github.com/google/uuid"
)

const SchemaVersion = 1

// Snapshot is the project-level outcome of one analysis run.
type Snapshot struct {
	SchemaVersion    int       `json:"schema_version" yaml:"schema_version"`
	RunID            uuid.UUID `json:"run_id" yaml:"run_id"`
	ProjectKey       string    `json:"project_key" yaml:"project_key"`
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
	Score            float64   `json:"score" yaml:"score"`
	MeanScore        float64   `json:"mean_score" yaml:"mean_score"`
	FileCount        int       `json:"file_count" yaml:"file_count"`
	TotalLines       int       `json:"total_lines" yaml:"total_lines"`
	TotalComplexity  int       `json:"total_complexity" yaml:"total_complexity"`
	UniqueVariables  int       `json:"unique_variables" yaml:"unique_variables"`
	UnreachableCount int       `json:"unreachable_count" yaml:"unreachable_count"`
	UnusedVarCount   int       `json:"unused_var_count" yaml:"unused_var_count"`
	BadWordCount     int       `json:"bad_word_count" yaml:"bad_word_count"`
	WaitTimeCount    int       `json:"waittime_count" yaml:"waittime_count"`
}

type TrendPoint struct {
	RunID            uuid.UUID `json:"run_id" yaml:"run_id"`
	Timestamp        time.Time `json:"timestamp" yaml:"timestamp"`
	Score            float64   `json:"score" yaml:"score"`
	FileCount        int       `json:"file_count" yaml:"file_count"`
	TotalLines       int       `json:"total_lines" yaml:"total_lines"`
	TotalComplexity  int       `json:"total_complexity" yaml:"total_complexity"`
	UnreachableCount int       `json:"unreachable_count" yaml:"unreachable_count"`
	UnusedVarCount   int       `json:"unused_var_count" yaml:"unused_var_count"`
	BadWordCount     int       `json:"bad_word_count" yaml:"bad_word_count"`

	DeltaScore       float64 `json:"delta_score" yaml:"delta_score"`
	DeltaFiles       int     `json:"delta_files" yaml:"delta_files"`
	DeltaLines       int     `json:"delta_lines" yaml:"delta_lines"`
	DeltaComplexity  int     `json:"delta_complexity" yaml:"delta_complexity"`
	DeltaUnreachable int     `json:"delta_unreachable" yaml:"delta_unreachable"`
	DeltaUnusedVars  int     `json:"delta_unused_vars" yaml:"delta_unused_vars"`
	DeltaBadWords    int     `json:"delta_bad_words" yaml:"delta_bad_words"`
	// AvgScore is the moving average of the score over the window.
	AvgScore    float64 `json:"avg_score" yaml:"avg_score"`
	WindowHours float64 `json:"window_hours" yaml:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version" yaml:"schema_version"`
	ProjectKey    string       `json:"project_key" yaml:"project_key"`
	Since         time.Time    `json:"since" yaml:"since"`
	Until         time.Time    `json:"until" yaml:"until"`
	Window        string       `json:"window" yaml:"window"`
	RunCount      int          `json:"run_count" yaml:"run_count"`
	Points        []TrendPoint `json:"points" yaml:"points"`
}

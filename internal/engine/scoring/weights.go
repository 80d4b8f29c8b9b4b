package scoring

// Weights holds every constant of the penalty table. DefaultWeights
// reproduces the reference scoring; the comment and file-size terms are
// tuning heuristics and are kept as is for comparable scores.
type Weights struct {
	ComplexityThreshold float64 `toml:"complexity_threshold" yaml:"complexity_threshold"`
	ComplexityFactor    float64 `toml:"complexity_factor" yaml:"complexity_factor"`
	ComplexityCap       float64 `toml:"complexity_cap" yaml:"complexity_cap"`

	NestingThreshold float64 `toml:"nesting_threshold" yaml:"nesting_threshold"`
	NestingFactor    float64 `toml:"nesting_factor" yaml:"nesting_factor"`
	NestingCap       float64 `toml:"nesting_cap" yaml:"nesting_cap"`

	CallDepthThreshold float64 `toml:"call_depth_threshold" yaml:"call_depth_threshold"`
	CallDepthFactor    float64 `toml:"call_depth_factor" yaml:"call_depth_factor"`
	CallDepthCap       float64 `toml:"call_depth_cap" yaml:"call_depth_cap"`

	ProcCountThreshold float64 `toml:"proc_count_threshold" yaml:"proc_count_threshold"`
	ProcCountFactor    float64 `toml:"proc_count_factor" yaml:"proc_count_factor"`
	ProcCountCap       float64 `toml:"proc_count_cap" yaml:"proc_count_cap"`

	ProcSizeRatio    float64 `toml:"proc_size_ratio" yaml:"proc_size_ratio"`
	ProcSizeFactor   float64 `toml:"proc_size_factor" yaml:"proc_size_factor"`
	ProcSizeMinLines float64 `toml:"proc_size_min_lines" yaml:"proc_size_min_lines"`

	FileSizeThreshold float64 `toml:"file_size_threshold" yaml:"file_size_threshold"`
	FileSizeFactor    float64 `toml:"file_size_factor" yaml:"file_size_factor"`
	FileSizeCap       float64 `toml:"file_size_cap" yaml:"file_size_cap"`

	UnusedFactor  float64 `toml:"unused_factor" yaml:"unused_factor"`
	UnusedCap     float64 `toml:"unused_cap" yaml:"unused_cap"`
	BadWordFactor float64 `toml:"bad_word_factor" yaml:"bad_word_factor"`
	BadWordCap    float64 `toml:"bad_word_cap" yaml:"bad_word_cap"`

	CommentBase   float64 `toml:"comment_base" yaml:"comment_base"`
	CommentFactor float64 `toml:"comment_factor" yaml:"comment_factor"`

	// The project score is capped at the mean of the ProjectWorstCount
	// lowest file scores plus ProjectCapMargin.
	ProjectWorstCount int     `toml:"project_worst_count" yaml:"project_worst_count"`
	ProjectCapMargin  float64 `toml:"project_cap_margin" yaml:"project_cap_margin"`
}

func DefaultWeights() Weights {
	return Weights{
		ComplexityThreshold: 50,
		ComplexityFactor:    1,
		ComplexityCap:       30,

		NestingThreshold: 8,
		NestingFactor:    5,
		NestingCap:       30,

		CallDepthThreshold: 3,
		CallDepthFactor:    15,
		CallDepthCap:       50,

		ProcCountThreshold: 20,
		ProcCountFactor:    1,
		ProcCountCap:       20,

		ProcSizeRatio:    0.60,
		ProcSizeFactor:   50,
		ProcSizeMinLines: 300,

		FileSizeThreshold: 600,
		FileSizeFactor:    0.05,
		FileSizeCap:       20,

		UnusedFactor:  0.5,
		UnusedCap:     20,
		BadWordFactor: 0.5,
		BadWordCap:    20,

		CommentBase:   5,
		CommentFactor: 0.05,

		ProjectWorstCount: 3,
		ProjectCapMargin:  40,
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "rapidscore/internal/core/errors"
	"rapidscore/internal/core/ports"
	"rapidscore/internal/engine/scoring"
)

const mainModule = `MODULE Main
    VAR num counter := 0;
    PROC main()
        ! Start the cycle
        MoveHome;
        WaitTime 1;
        counter := counter + 1;
    ENDPROC
    PROC MoveHome()
        TPWrite "home";
    ENDPROC
ENDMODULE
`

const toolsModule = `MODULE Tools
    PROC Orphan()
        WaitTime 2;
    ENDPROC
ENDMODULE
`

type fixture struct {
	project string
	config  string
	dbDir   string
}

// newFixture writes a two-module project plus a config that points the
// word list and databases into the temp dir.
func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	project := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "Main.mod"), []byte(mainModule), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(project, "lib", "Tools.sys"), []byte(toolsModule), 0o644))

	words := filepath.Join(dir, "words")
	require.NoError(t, os.WriteFile(words, []byte("counter\nhome\nmove\norphan\n"), 0o644))

	dbDir := filepath.Join(dir, "db")
	cfgPath := filepath.Join(dir, "rapidscore.toml")
	cfg := fmt.Sprintf(`version = 1

[paths]
state_dir = %q
database_dir = %q

[lexicon]
backend = "wordlist"
path = %q
`, filepath.Join(dir, "state"), dbDir, words)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return fixture{project: project, config: cfgPath, dbDir: dbDir}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(streams{in: strings.NewReader(stdin), out: &out, err: &errOut}, coreAnalysisFactory{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "rapidscore v"), out)
}

func TestRootCommand_UnknownFormatExitsWithUsageCode(t *testing.T) {
	fx := newFixture(t)
	_, _, err := execute(t, "", "--config", fx.config, "-f", "pdf", fx.project)

	var exit *exitError
	require.True(t, errors.As(err, &exit), "got %v", err)
	assert.Equal(t, 2, exit.code)
}

func TestRootCommand_InvalidConfigExitsWithUsageCode(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "rapidscore.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[lexicon]\nbackend = \"wordlist\"\npath = \"/does/not/exist\"\n"), 0o644))

	_, _, err := execute(t, "", "--config", cfgPath, dir)
	var exit *exitError
	require.True(t, errors.As(err, &exit), "got %v", err)
	assert.Equal(t, 2, exit.code)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestRootCommand_AnalyzeJSON(t *testing.T) {
	fx := newFixture(t)
	out, _, err := execute(t, "", "--config", fx.config, "-f", "json", fx.project)
	require.NoError(t, err)

	var res ports.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Files, 2)
	assert.Equal(t, 2, res.Summary.Files)
	assert.Equal(t, 1, res.Summary.Unreachable)
	assert.Equal(t, 2, res.Summary.WaitTimes)
}

func TestRootCommand_TextToFile(t *testing.T) {
	fx := newFixture(t)
	target := filepath.Join(t.TempDir(), "out", "report.txt")
	out, _, err := execute(t, "", "--config", fx.config, "-o", target, fx.project)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Main.mod")
	assert.Contains(t, string(data), "lib/Tools.sys")
}

func TestRootCommand_PromptsForFolder(t *testing.T) {
	fx := newFixture(t)
	out, errOut, err := execute(t, fmt.Sprintf("%q\n", fx.project), "--config", fx.config)
	require.NoError(t, err)
	assert.Contains(t, errOut, "RAPID project folder: ")
	assert.Contains(t, out, "Main.mod")
}

func TestRootCommand_EmptyPromptCancels(t *testing.T) {
	fx := newFixture(t)
	_, _, err := execute(t, "\n", "--config", fx.config)
	assert.ErrorIs(t, err, errNoFolder)
}

func TestTreeCommand(t *testing.T) {
	fx := newFixture(t)
	out, _, err := execute(t, "", "--config", fx.config, "tree", fx.project)
	require.NoError(t, err)
	assert.Contains(t, out, "Call tree from MAIN")
	assert.Contains(t, out, "MoveHome")
	assert.NotContains(t, out, "Orphan")
}

func TestWaitTimesCommand(t *testing.T) {
	fx := newFixture(t)
	out, _, err := execute(t, "", "--config", fx.config, "waittimes", "--context", "0", fx.project)
	require.NoError(t, err)
	assert.Contains(t, out, "WaitTime 1;")
	assert.Contains(t, out, "WaitTime 2;")
	assert.NotContains(t, out, "MoveHome;")
}

func TestWaitTimesCommand_RejectsNegativeContext(t *testing.T) {
	fx := newFixture(t)
	_, _, err := execute(t, "", "--config", fx.config, "waittimes", "--context=-1", fx.project)
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 2, exit.code)
}

func TestDetailsCommand(t *testing.T) {
	fx := newFixture(t)

	tests := []struct {
		name string
		file string
		want string
	}{
		{name: "relative path", file: "lib/Tools.sys", want: "Orphan"},
		{name: "base name", file: "main.mod", want: "Main.mod"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", "--config", fx.config, "details", fx.project, tt.file)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "Overall code score")
		})
	}
}

func TestDetailsCommand_UnknownFile(t *testing.T) {
	fx := newFixture(t)
	_, _, err := execute(t, "", "--config", fx.config, "details", fx.project, "Missing.mod")
	require.Error(t, err)
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeNotFound), "got %v", err)
}

func TestFindFile_AmbiguousBaseName(t *testing.T) {
	res := &ports.AnalysisResult{Root: "/p"}
	res.Files = append(res.Files, scoreAt("/p/a/X.mod"), scoreAt("/p/b/X.mod"))

	_, err := findFile(res, "X.mod")
	assert.True(t, domainerrors.IsCode(err, domainerrors.CodeValidationError))

	f, err := findFile(res, "b/X.mod")
	require.NoError(t, err)
	assert.Equal(t, "/p/b/X.mod", f.Path)
}

func scoreAt(path string) scoring.FileScore {
	return scoring.FileScore{Path: path, Score: 80}
}

func TestHistoryCommand(t *testing.T) {
	fx := newFixture(t)

	out, _, err := execute(t, "", "--config", fx.config, "history", fx.project)
	require.NoError(t, err)
	assert.Contains(t, out, "No snapshots recorded")

	_, _, err = execute(t, "", "--config", fx.config, "--history", "-f", "tsv", fx.project)
	require.NoError(t, err)
	_, _, err = execute(t, "", "--config", fx.config, "--history", "-f", "tsv", fx.project)
	require.NoError(t, err)

	out, _, err = execute(t, "", "--config", fx.config, "history", "-f", "json", fx.project)
	require.NoError(t, err)
	var trend struct {
		RunCount int `json:"run_count"`
		Points   []struct {
			DeltaScore float64 `json:"delta_score"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &trend))
	assert.Equal(t, 2, trend.RunCount)
	require.Len(t, trend.Points, 2)
	assert.Zero(t, trend.Points[1].DeltaScore)

	_, err = os.Stat(filepath.Join(fx.dbDir, "history.db"))
	assert.NoError(t, err)
}

func TestHistoryCommand_BadFlags(t *testing.T) {
	fx := newFixture(t)
	for _, args := range [][]string{
		{"history", "--since", "yesterday", fx.project},
		{"history", "--window=-1h", fx.project},
	} {
		_, _, err := execute(t, "", append([]string{"--config", fx.config}, args...)...)
		var exit *exitError
		require.True(t, errors.As(err, &exit), "args %v: %v", args, err)
		assert.Equal(t, 2, exit.code)
	}
}

func TestLexiconImportCommand(t *testing.T) {
	dir := t.TempDir()
	words := filepath.Join(dir, "words")
	require.NoError(t, os.WriteFile(words, []byte("alpha\nbeta\ngamma\n"), 0o644))
	db := filepath.Join(dir, "lexicon.db")

	out, _, err := execute(t, "", "lexicon", "import", words, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 words")
	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestPromptFolder(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "plain", input: "/robots/cell1\n", want: "/robots/cell1"},
		{name: "quoted", input: "\"/robots/cell 2\"\n", want: "/robots/cell 2"},
		{name: "no newline", input: "cell3", want: "cell3"},
		{name: "empty", input: "  \n", wantErr: errNoFolder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var prompt bytes.Buffer
			got, err := promptFolder(strings.NewReader(tt.input), &prompt)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "RAPID project folder: ", prompt.String())
		})
	}
}

func TestParseHistoryWindow(t *testing.T) {
	d, err := parseHistoryWindow("")
	require.NoError(t, err)
	assert.Positive(t, d)

	_, err = parseHistoryWindow("soon")
	assert.Error(t, err)
}

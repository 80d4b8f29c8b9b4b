// # internal/engine/scanner/classify.go
package scanner

import (
	"regexp"
	"strings"
	"unicode"
)

type LineKind int

const (
	KindBlank LineKind = iota
	KindComment
	KindDecorative
	KindCode
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindDecorative:
		return "decorative"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Line is the classification of one physical source line. Fields that only
// make sense for code lines are left zero for other kinds.
type Line struct {
	Raw  string
	Kind LineKind

	// Code is the line with its inline comment and string literals removed.
	Code string

	ModuleName string // set on MODULE header lines
	NoStepIn   bool   // MODULE header carries NOSTEPIN
	ModuleEnd  bool

	ProcName string // set on PROC/FUNC/TRAP header lines
	ProcEnd  bool

	Declared       string   // variable named by a PERS/VAR/CONST declaration
	Signals        []string // targets of Set/Reset/Switch/SetDO/ResetDO
	DispatchPrefix string   // first quoted argument of CallByVar
	WaitTime       bool
	Identifiers    []string // identifier-shaped tokens of Code
	Indent         int      // leading whitespace characters

	Opens    bool // IF FOR WHILE TEST
	Closes   bool // ENDIF ENDFOR ENDWHILE ENDTEST
	Branches bool // ELSEIF CASE

	// NoCalls marks lines the call-graph pass ignores: comments and
	// TPWrite operator messages.
	NoCalls bool
}

// Classifier turns a raw line into a Line. Both analysis passes read source
// text only through this interface.
type Classifier interface {
	Classify(raw string) Line
}

const namePattern = `([\p{L}][\p{L}\p{N}_]*)`

var (
	moduleHeader = regexp.MustCompile(`(?i)^\s*MODULE\s+` + namePattern)
	noStepIn     = regexp.MustCompile(`(?i)\bNOSTEPIN\b`)
	moduleEnd    = regexp.MustCompile(`(?i)^\s*ENDMODULE\b`)

	procHeader = regexp.MustCompile(`(?i)^\s*(?:LOCAL\s+)?(?:PROC|TRAP)\s+` + namePattern)
	funcHeader = regexp.MustCompile(`(?i)^\s*(?:LOCAL\s+)?FUNC\s+\w+\s+` + namePattern)
	procEnd    = regexp.MustCompile(`(?i)^\s*END(?:PROC|FUNC|TRAP)\b`)

	declaration = regexp.MustCompile(`(?i)^\s*(?:(?:LOCAL|TASK)\s+)?(?:PERS|VAR|CONST)\s+\w+\s+` + namePattern)
	signalSet   = regexp.MustCompile(`(?i)\b(?:Set|Reset|Switch)\s+` + namePattern)
	signalSetDO = regexp.MustCompile(`(?i)\b(?:SetDO|ResetDO)\s+` + namePattern)
	callByVar   = regexp.MustCompile(`(?i)\bCallByVar\b[^"]*"([^"]+)"`)
	waitTime    = regexp.MustCompile(`(?i)\bWaitTime\b`)

	stringLiteral = regexp.MustCompile(`"[^"]*"`)
	wordRun       = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

var (
	openKeywords   = map[string]bool{"IF": true, "FOR": true, "WHILE": true, "TEST": true}
	closeKeywords  = map[string]bool{"ENDIF": true, "ENDFOR": true, "ENDWHILE": true, "ENDTEST": true}
	branchKeywords = map[string]bool{"ELSEIF": true, "CASE": true}
)

// RegexClassifier is the line-level lexer for RAPID source.
type RegexClassifier struct{}

// NewClassifier returns the default RAPID classifier.
func NewClassifier() RegexClassifier {
	return RegexClassifier{}
}

func (RegexClassifier) Classify(raw string) Line {
	line := Line{Raw: raw}
	trimmed := strings.TrimSpace(raw)

	if m := moduleHeader.FindStringSubmatch(raw); m != nil {
		line.ModuleName = m[1]
		line.NoStepIn = noStepIn.MatchString(raw)
	}
	line.ModuleEnd = moduleEnd.MatchString(raw)

	switch {
	case strings.HasPrefix(trimmed, "!**"), strings.HasPrefix(trimmed, "!--"):
		line.Kind = KindDecorative
		line.NoCalls = true
		return line
	case strings.HasPrefix(trimmed, "!"):
		line.Kind = KindComment
		line.NoCalls = true
		return line
	case trimmed == "":
		line.Kind = KindBlank
		return line
	}

	line.Kind = KindCode
	line.NoCalls = strings.HasPrefix(strings.ToUpper(trimmed), "TPWRITE")
	line.Indent = len(raw) - len(strings.TrimLeft(raw, " \t\v\f\r"))

	uncommented := StripInlineComment(raw)
	line.Code = stringLiteral.ReplaceAllString(uncommented, "")

	line.WaitTime = waitTime.MatchString(line.Code)
	if m := declaration.FindStringSubmatch(line.Code); m != nil {
		line.Declared = m[1]
	}
	if m := signalSet.FindStringSubmatch(line.Code); m != nil {
		line.Signals = append(line.Signals, m[1])
	}
	if m := signalSetDO.FindStringSubmatch(line.Code); m != nil {
		line.Signals = append(line.Signals, m[1])
	}
	if m := callByVar.FindStringSubmatch(uncommented); m != nil {
		line.DispatchPrefix = strings.TrimSpace(m[1])
	}
	line.Identifiers = Identifiers(line.Code)

	if m := procHeader.FindStringSubmatch(line.Code); m != nil {
		line.ProcName = m[1]
	} else if m := funcHeader.FindStringSubmatch(line.Code); m != nil {
		line.ProcName = m[1]
	}
	line.ProcEnd = procEnd.MatchString(line.Code)

	keyword := strings.ToUpper(firstWord(line.Code))
	line.Opens = openKeywords[keyword]
	line.Closes = closeKeywords[keyword]
	line.Branches = branchKeywords[keyword]

	return line
}

// StripInlineComment cuts s at the first '!' that is not inside a string
// literal.
func StripInlineComment(s string) string {
	inString := false
	for i, r := range s {
		switch r {
		case '"':
			inString = !inString
		case '!':
			if !inString {
				return s[:i]
			}
		}
	}
	return s
}

// Identifiers returns the word runs of s that start with a letter, in order
// of appearance. Runs starting with a digit or underscore are not names.
func Identifiers(s string) []string {
	runs := wordRun.FindAllString(s, -1)
	out := runs[:0]
	for _, run := range runs {
		if startsWithLetter(run) {
			out = append(out, run)
		}
	}
	return out
}

func firstWord(s string) string {
	loc := wordRun.FindStringIndex(s)
	if loc == nil || strings.TrimSpace(s[:loc[0]]) != "" {
		return ""
	}
	return s[loc[0]:loc[1]]
}

func startsWithLetter(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r)
	}
	return false
}

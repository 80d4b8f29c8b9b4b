// # internal/ui/report/formats/sarif.go
package formats

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"rapidscore/internal/engine/scoring"
	"rapidscore/internal/shared/version"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"

	ruleIDUnreachable = "RAPID001"
	ruleIDUnusedVar   = "RAPID002"
	ruleIDBadWord     = "RAPID003"
	ruleIDWaitTime    = "RAPID004"
	ruleIDLowScore    = "RAPID005"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document from file scores. All file
// URIs are made relative to projectRoot.
func GenerateSARIF(projectRoot string, files []scoring.FileScore) ([]byte, error) {
	var results []sarifResult
	seen := make(map[string]bool)
	mark := func(id string) { seen[id] = true }

	for _, f := range files {
		uri := relativeURI(projectRoot, f.Path)

		for _, p := range f.Procedures {
			if p.Status != scoring.StatusUnreachable {
				continue
			}
			mark(ruleIDUnreachable)
			results = append(results, sarifResult{
				RuleID:    ruleIDUnreachable,
				Level:     "warning",
				Message:   sarifMessage{Text: fmt.Sprintf("Procedure %s is not reachable from MAIN.", p.Name)},
				Locations: []sarifLocation{fileLocation(uri, p.Line)},
			})
		}
		for _, name := range f.UnusedVars {
			mark(ruleIDUnusedVar)
			results = append(results, sarifResult{
				RuleID:    ruleIDUnusedVar,
				Level:     "warning",
				Message:   sarifMessage{Text: fmt.Sprintf("Variable %s is declared but never used.", name)},
				Locations: []sarifLocation{fileLocation(uri, 0)},
			})
		}
		if len(f.BadWords) > 0 {
			mark(ruleIDBadWord)
			results = append(results, sarifResult{
				RuleID:    ruleIDBadWord,
				Level:     "note",
				Message:   sarifMessage{Text: "Variable names use non-dictionary words: " + strings.Join(f.BadWords, ", ")},
				Locations: []sarifLocation{fileLocation(uri, 0)},
			})
		}
		for _, line := range f.WaitTimeLines {
			mark(ruleIDWaitTime)
			results = append(results, sarifResult{
				RuleID:    ruleIDWaitTime,
				Level:     "note",
				Message:   sarifMessage{Text: "WaitTime call; prefer waiting on a signal or condition."},
				Locations: []sarifLocation{fileLocation(uri, line)},
			})
		}
		if scoring.BandOf(f.Score) == scoring.BandPoor {
			mark(ruleIDLowScore)
			results = append(results, sarifResult{
				RuleID:    ruleIDLowScore,
				Level:     "warning",
				Message:   sarifMessage{Text: fmt.Sprintf("File code score is %.0f/100.", f.Score)},
				Locations: []sarifLocation{fileLocation(uri, 0)},
			})
		}
	}
	if results == nil {
		results = []sarifResult{}
	}

	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    "rapidscore",
						Version: version.Version,
						Rules:   buildSARIFRules(seen),
					},
				},
				Results: results,
			},
		},
	}

	return json.MarshalIndent(report, "", "  ")
}

// buildSARIFRules returns only the rules that have at least one result.
func buildSARIFRules(seen map[string]bool) []sarifRule {
	all := []sarifRule{
		{
			ID:               ruleIDUnreachable,
			Name:             "UnreachableProcedure",
			ShortDescription: sarifMessage{Text: "Procedure is not reachable from any MAIN routine."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		},
		{
			ID:               ruleIDUnusedVar,
			Name:             "UnusedVariable",
			ShortDescription: sarifMessage{Text: "Declared variable is never used in the project."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		},
		{
			ID:               ruleIDBadWord,
			Name:             "NonDictionaryName",
			ShortDescription: sarifMessage{Text: "Variable name contains words that are not in the dictionary."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "note"},
		},
		{
			ID:               ruleIDWaitTime,
			Name:             "WaitTimeCall",
			ShortDescription: sarifMessage{Text: "Fixed WaitTime delay."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "note"},
		},
		{
			ID:               ruleIDLowScore,
			Name:             "LowCodeScore",
			ShortDescription: sarifMessage{Text: "File code score is below 50."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		},
	}
	rules := make([]sarifRule, 0, len(all))
	for _, r := range all {
		if seen[r.ID] {
			rules = append(rules, r)
		}
	}
	return rules
}

// relativeURI converts an absolute file path to a forward-slash relative URI
// anchored at projectRoot.
func relativeURI(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		rel, err := filepath.Rel(projectRoot, filePath)
		if err == nil {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

func fileLocation(uri string, line int) sarifLocation {
	loc := sarifLocation{
		PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{
				URI:       uri,
				URIBaseID: "%SRCROOT%",
			},
		},
	}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line}
	}
	return loc
}

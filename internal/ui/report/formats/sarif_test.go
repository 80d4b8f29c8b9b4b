package formats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidscore/internal/engine/scoring"
)

func TestGenerateSARIF(t *testing.T) {
	data, err := GenerateSARIF("/p", sampleFiles())
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.Runs, 1)
	run := report.Runs[0]
	assert.Equal(t, "rapidscore", run.Tool.Driver.Name)

	ruleIDs := make([]string, 0, len(run.Tool.Driver.Rules))
	for _, r := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, r.ID)
	}
	assert.Equal(t, []string{ruleIDUnreachable, ruleIDUnusedVar, ruleIDBadWord, ruleIDWaitTime, ruleIDLowScore}, ruleIDs)

	byRule := map[string][]sarifResult{}
	for _, r := range run.Results {
		byRule[r.RuleID] = append(byRule[r.RuleID], r)
	}
	require.Len(t, byRule[ruleIDUnreachable], 1)
	loc := byRule[ruleIDUnreachable][0].Locations[0].PhysicalLocation
	assert.Equal(t, "lib/Tools.sys", loc.ArtifactLocation.URI)
	require.NotNil(t, loc.Region)
	assert.Equal(t, 4, loc.Region.StartLine)

	require.Len(t, byRule[ruleIDWaitTime], 1)
	assert.Equal(t, 12, byRule[ruleIDWaitTime][0].Locations[0].PhysicalLocation.Region.StartLine)
	assert.Nil(t, byRule[ruleIDUnusedVar][0].Locations[0].PhysicalLocation.Region)
}

func TestGenerateSARIF_CleanProject(t *testing.T) {
	data, err := GenerateSARIF("/p", []scoring.FileScore{{Path: "/p/A.mod", Score: 100}})
	require.NoError(t, err)

	var report sarifReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Empty(t, report.Runs[0].Tool.Driver.Rules)
	assert.NotNil(t, report.Runs[0].Results)
}

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchfeed-loader/internal/domain/entity"
	"github.com/riskibarqy/matchfeed-loader/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/matchfeed-loader/internal/usecase"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := rootCmd()
	for _, path := range [][]string{
		{"ingest"},
		{"reset"},
		{"stats"},
		{"version"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"migrate", "force"},
		{"migrate", "goto"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "matchfeed-loader version dev")
}

func TestMigrateForceRequiresVersion(t *testing.T) {
	t.Parallel()

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "force"})

	require.Error(t, root.Execute())
}

func TestParseSteps(t *testing.T) {
	t.Parallel()

	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"many"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	t.Parallel()

	v, err := parseVersion("-1")
	require.NoError(t, err)
	assert.Equal(t, -1, v)
	_, err = parseVersion("-2")
	assert.Error(t, err)

	target, err := parseTarget("1")
	require.NoError(t, err)
	assert.Equal(t, uint(1), target)
	_, err = parseTarget("-1")
	assert.Error(t, err)
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	ids, err := parseIDs([]string{"2", "11"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 11}, ids)

	_, err = parseIDs([]string{"la-liga"})
	assert.Error(t, err)
}

func TestPrintRunReport(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printRunReport(&out, usecase.RunReport{
		RunID:    "run-1",
		Duration: time.Second,
		Passes: []usecase.PassReport{{
			Pass:          usecase.PassMatches,
			Files:         3,
			FilteredFiles: 2,
			Inserted:      map[entity.Kind]int{entity.KindMatch: 380, entity.KindTeam: 20},
			Skipped:       map[entity.Kind]int{entity.KindTeam: 740},
		}},
	})

	text := out.String()
	assert.Contains(t, text, "run run-1: 1 pass(es) committed")
	assert.Regexp(t, `matches\s+3\s+2\s+match\s+380\s+0`, text)
	assert.Regexp(t, `matches\s+3\s+2\s+team\s+20\s+740`, text)

	out.Reset()
	printRunReport(&out, usecase.RunReport{})
	assert.Empty(t, out.String())
}

func TestPrintStats(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printStats(&out, statsView{
		Tables:     map[entity.Kind]int64{entity.KindMatch: 1},
		Seasons:    []sqlstore.SeasonMatchCount{{CompetitionID: 2, SeasonID: 44, Matches: 1}},
		EventTypes: []sqlstore.EventTypeCount{{EventTypeID: 30, Events: 2}},
	})

	text := out.String()
	assert.Regexp(t, `match\s+1`, text)
	assert.Regexp(t, `2\s+44\s+1`, text)
	assert.Regexp(t, `30\s+2`, text)
}

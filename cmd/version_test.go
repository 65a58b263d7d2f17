package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionReport(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(versionReport()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "workload dev (commit none, built unknown, go"))
	assert.Equal(t, "inputs:   .csv, .json, .xlsx", lines[1])
	assert.Equal(t, "outputs:  csv, json, parquet, text", lines[2])
	assert.Equal(t, "backends: mysql, none, postgresql, sqlite", lines[3])
	assert.Equal(t, "units:    1 day = 8h, 1 week = 5 days", lines[4])
}

func TestShortCommit(t *testing.T) {
	assert.Equal(t, "0123456", shortCommit("0123456789abcdef"))
	assert.Equal(t, "none", shortCommit("none"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, versionReport(), out.String())
}

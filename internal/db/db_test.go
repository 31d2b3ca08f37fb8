package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusConstants(t *testing.T) {
	assert.Equal(t, "running", RunStatusRunning)
	assert.Equal(t, "completed", RunStatusCompleted)
	assert.Equal(t, "failed", RunStatusFailed)
}

func TestParseRunType(t *testing.T) {
	run := ParseRun{
		Source: "syllabus.pdf",
		Format: "pdf",
		Status: RunStatusRunning,
	}

	assert.Equal(t, "syllabus.pdf", run.Source)
	assert.Equal(t, "pdf", run.Format)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.Confidence)
	assert.Nil(t, run.CompletedAt)
}

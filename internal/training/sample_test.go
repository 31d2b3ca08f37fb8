package training

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/syllabus-parser/internal/redaction"
	"github.com/jonathan/syllabus-parser/internal/types"
)

const sampleSyllabus = `CS 348: Introduction to Databases
Fall 2025, Tuesdays and Thursdays 10:00-11:20
Instructor: Dr. Jane Smith (jane.smith@university.edu)

Course description: relational model, SQL, transactions.

Grading: 40% assignments, 30% midterm exam, 30% final exam.
Assignment 1 due September 18.
Assignment 2 due October 9.
Late policy: 10% per day, up to three days.
Attendance is expected but not graded.`

func testBuilder() *Builder {
	b := NewBuilder(redaction.NewEngine())
	b.now = func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestBuildSample(t *testing.T) {
	b := testBuilder()

	name := "Introduction to Databases"
	record := &types.ParsedRecord{}
	record.CourseInfo.CourseName = &name

	sample, err := b.Build(record, sampleSyllabus)
	require.NoError(t, err)

	assert.Equal(t, types.TrainingSampleVersion, sample.Version)
	assert.Equal(t, time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC), sample.CreatedAt)

	var fields types.ParsedRecord
	require.NoError(t, json.Unmarshal(sample.Fields, &fields))
	require.NotNil(t, fields.CourseInfo.CourseName)
	assert.Equal(t, "Introduction to Databases", *fields.CourseInfo.CourseName)
}

func TestBuildPreviewIsFirstLines(t *testing.T) {
	b := testBuilder()

	sample, err := b.Build(types.NullRecord(), sampleSyllabus)
	require.NoError(t, err)

	require.Len(t, sample.Snippets.Preview, DefaultPreviewLines)
	assert.Equal(t, "CS 348: Introduction to Databases", sample.Snippets.Preview[0])
	assert.Contains(t, sample.Snippets.Preview[2], "[REDACTED_EMAIL]", "preview lines pass redaction")
}

func TestBuildKeywordSamples(t *testing.T) {
	b := testBuilder()

	sample, err := b.Build(types.NullRecord(), sampleSyllabus)
	require.NoError(t, err)

	joined := strings.Join(sample.Snippets.KeywordSamples, "\n")
	assert.Contains(t, joined, "Grading: 40% assignments")
	assert.Contains(t, joined, "Late policy")
	assert.Contains(t, joined, "Attendance is expected")
	assert.NotContains(t, joined, "relational model", "lines without keywords are skipped")
}

func TestBuildBoundedAgainstLargeDocuments(t *testing.T) {
	b := testBuilder()

	var sb strings.Builder
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "Assignment %d is due in week %d. %s\n", i, i%15, strings.Repeat("x", 400))
	}

	sample, err := b.Build(types.NullRecord(), sb.String())
	require.NoError(t, err)

	assert.Len(t, sample.Snippets.KeywordSamples, DefaultKeywordCap)
	for _, s := range sample.Snippets.KeywordSamples {
		assert.LessOrEqual(t, len([]rune(s)), DefaultSnippetMaxLen)
	}
	for _, s := range sample.Snippets.Preview {
		assert.LessOrEqual(t, len([]rune(s)), DefaultSnippetMaxLen)
	}
}

func TestBuildRedactsRecordFields(t *testing.T) {
	b := testBuilder()

	email := "prof@university.edu"
	record := &types.ParsedRecord{}
	record.Contacts = []types.Contact{{Email: &email}}

	sample, err := b.Build(record, "")
	require.NoError(t, err)

	assert.NotContains(t, string(sample.Fields), "prof@university.edu")
	assert.Contains(t, string(sample.Fields), "[REDACTED_EMAIL]")
}

func TestBuildNilRecord(t *testing.T) {
	b := testBuilder()

	sample, err := b.Build(nil, "hello")
	require.NoError(t, err)

	var fields types.ParsedRecord
	require.NoError(t, json.Unmarshal(sample.Fields, &fields))
	assert.Nil(t, fields.CourseInfo.CourseName)
}

func TestBuildEmptySource(t *testing.T) {
	b := testBuilder()

	sample, err := b.Build(types.NullRecord(), "")
	require.NoError(t, err)
	assert.Empty(t, sample.Snippets.Preview)
	assert.Empty(t, sample.Snippets.KeywordSamples)
}

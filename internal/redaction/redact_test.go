package redaction

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/syllabus-parser/internal/types"
)

func TestRedactEmail(t *testing.T) {
	e := NewEngine()

	out := e.Redact("Contact Prof. Smith at jane.smith@university.edu with questions.")
	assert.Equal(t, "Contact Prof. Smith at [REDACTED_EMAIL] with questions.", out)
}

func TestRedactEmailProperty(t *testing.T) {
	e := NewEngine()
	emailPattern := regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	rng := rand.New(rand.NewSource(42))
	locals := []string{"john.doe", "a_b", "ta-office", "x%y", "first+last", "s123456"}
	domains := []string{"gmail.com", "university.edu", "cs.school.ac.uk", "mail-server.org"}

	for i := 0; i < 100; i++ {
		email := fmt.Sprintf("%s@%s", locals[rng.Intn(len(locals))], domains[rng.Intn(len(domains))])
		input := fmt.Sprintf("Office hours by appointment, email %s to schedule.", email)

		out := e.Redact(input)
		assert.False(t, emailPattern.MatchString(out), "no email survives redaction: %s", out)
		assert.Contains(t, out, "[REDACTED_EMAIL]")
	}
}

func TestRedactPhone(t *testing.T) {
	e := NewEngine()
	cases := []string{
		"Call 555-867-5309 anytime.",
		"Call (555) 867-5309 anytime.",
		"Call +1 555.867.5309 anytime.",
	}
	for _, input := range cases {
		out := e.Redact(input)
		assert.Equal(t, "Call [REDACTED_PHONE] anytime.", out, "input: %s", input)
	}
}

func TestRedactPhoneLeavesDatesAlone(t *testing.T) {
	e := NewEngine()

	out := e.Redact("Midterm on 2025-10-14, final on 2025-12-09.")
	assert.NotContains(t, out, "[REDACTED_PHONE]")
}

func TestRedactURL(t *testing.T) {
	e := NewEngine()

	out := e.Redact("Submit via https://canvas.university.edu/courses/12345 before midnight.")
	assert.Equal(t, "Submit via [REDACTED_URL] before midnight.", out)
}

func TestRedactIdentifier(t *testing.T) {
	e := NewEngine()

	out := e.Redact("Include your Student ID: A12345678 on every submission.")
	assert.Contains(t, out, "[REDACTED_ID]")
	assert.NotContains(t, out, "A12345678")
}

func TestRedactAddress(t *testing.T) {
	e := NewEngine()

	out := e.Redact("Office: 221 Baker Street, room 4.")
	assert.Contains(t, out, "[REDACTED_ADDRESS]")
	assert.NotContains(t, out, "Baker Street")
}

func TestURLRunsBeforeAddressHeuristic(t *testing.T) {
	e := NewEngine()

	// The URL path looks address-shaped; the URL rule must consume it whole.
	out := e.Redact("See www.example.edu/10-Downing-Street for details.")
	assert.Contains(t, out, "[REDACTED_URL]")
	assert.NotContains(t, out, "[REDACTED_ADDRESS]")
}

func TestRedactMultipleKinds(t *testing.T) {
	e := NewEngine()

	input := "Email bob@school.edu or call 555-123-4567; syllabus at https://school.edu/syllabus."
	out := e.Redact(input)

	assert.Contains(t, out, "[REDACTED_EMAIL]")
	assert.Contains(t, out, "[REDACTED_PHONE]")
	assert.Contains(t, out, "[REDACTED_URL]")
	assert.NotContains(t, out, "bob@school.edu")
	assert.NotContains(t, out, "555-123-4567")
}

func TestRedactIdempotent(t *testing.T) {
	e := NewEngine()

	once := e.Redact("Write to ta@course.edu.")
	twice := e.Redact(once)
	assert.Equal(t, once, twice)
}

func TestRedactRecord(t *testing.T) {
	e := NewEngine()

	email := "prof@university.edu"
	name := "Dr. Ada Lovelace"
	policy := "Questions go to ta@university.edu or 555-234-5678."
	record := &types.ParsedRecord{}
	record.Contacts = []types.Contact{{Name: &name, Email: &email}}
	record.Policies.Communication = &policy

	out, err := e.RedactRecord(record)
	require.NoError(t, err)

	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "[REDACTED_EMAIL]", *out.Contacts[0].Email)
	assert.Equal(t, "Dr. Ada Lovelace", *out.Contacts[0].Name, "names are not in the rule set")
	assert.False(t, strings.Contains(*out.Policies.Communication, "ta@university.edu"))
	assert.Contains(t, *out.Policies.Communication, "[REDACTED_PHONE]")

	assert.Equal(t, "prof@university.edu", *record.Contacts[0].Email, "input record is untouched")
}

func TestRedactRecordPreservesNulls(t *testing.T) {
	e := NewEngine()

	out, err := e.RedactRecord(types.NullRecord())
	require.NoError(t, err)
	assert.Equal(t, types.NullRecord(), out)
}

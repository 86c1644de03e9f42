package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() map[string]string {
	return map[string]string{
		"attemptID":  "attempt-1",
		"sourceCode": "package main",
		"language":   "go",
		"email":      "dev@example.com",
		"driveId":    "drive-1",
		"qId":        "42",
	}
}

func TestParseSubmission_ValidMessageParsesEveryField(t *testing.T) {
	msg := &StreamMessage{ID: "1-0", Fields: validFields()}

	submission, err := ParseSubmission(msg)

	require.NoError(t, err)
	assert.Equal(t, "attempt-1", submission.AttemptID)
	assert.Equal(t, "package main", submission.SourceCode)
	assert.Equal(t, "go", submission.Language)
	assert.Equal(t, "dev@example.com", submission.Email)
	assert.Equal(t, "drive-1", submission.DriveID)
	assert.Equal(t, int64(42), submission.QID)
}

func TestParseSubmission_OptionalFieldsDefaultToEmpty(t *testing.T) {
	msg := &StreamMessage{ID: "1-0", Fields: validFields()}

	submission, err := ParseSubmission(msg)

	require.NoError(t, err)
	assert.Empty(t, submission.LangCode)
	assert.Empty(t, submission.TestID)
	assert.Empty(t, submission.Difficulty)
}

func TestParseSubmission_MissingRequiredFieldFailsFast(t *testing.T) {
	fields := validFields()
	delete(fields, "sourceCode")
	msg := &StreamMessage{ID: "1-0", Fields: fields}

	_, err := ParseSubmission(msg)

	assert.Error(t, err)
}

func TestParseSubmission_InvalidQIDFailsFast(t *testing.T) {
	fields := validFields()
	fields["qId"] = "not-a-number"
	msg := &StreamMessage{ID: "1-0", Fields: fields}

	_, err := ParseSubmission(msg)

	assert.Error(t, err)
}

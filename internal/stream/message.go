package stream

import (
	"fmt"
	"strconv"

	"github.com/RishiKendai/aegis/internal/models"
)

// StreamMessage is the flattened field view of one Redis stream entry.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseSubmission decodes a stream message into a Submission, failing
// fast on a missing required field rather than silently defaulting it.
func ParseSubmission(msg *StreamMessage) (*models.Submission, error) {
	get := func(key string) (string, error) {
		v, ok := msg.Fields[key]
		if !ok || v == "" {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return v, nil
	}

	attemptID, err := get("attemptID")
	if err != nil {
		return nil, err
	}
	sourceCode, err := get("sourceCode")
	if err != nil {
		return nil, err
	}
	language, err := get("language")
	if err != nil {
		return nil, err
	}
	email, err := get("email")
	if err != nil {
		return nil, err
	}
	driveID, err := get("driveId")
	if err != nil {
		return nil, err
	}
	qidStr, err := get("qId")
	if err != nil {
		return nil, err
	}
	qid, err := strconv.ParseInt(qidStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid qId %q: %w", qidStr, err)
	}

	return &models.Submission{
		AttemptID:  attemptID,
		SourceCode: sourceCode,
		Language:   language,
		LangCode:   msg.Fields["langCode"],
		Email:      email,
		TestID:     msg.Fields["testId"],
		DriveID:    driveID,
		QID:        qid,
		Difficulty: msg.Fields["difficulty"],
	}, nil
}

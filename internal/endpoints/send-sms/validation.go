package sendsms

import (
	"bytes"
	"encoding/json"

	"notification-relay/internal/common/errors"
	"notification-relay/internal/common/validation"
	"notification-relay/internal/models"
)

const (
	msgMissingFields = `Missing "to" or "message" field`
	msgInvalidBody   = "Invalid request body"
)

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["to", "message"],
	"properties": {
		"to":      {"type": ["string", "null"]},
		"message": {"type": ["string", "null"]}
	}
}`)

// parseRequest checks the body shape. The number itself is free-form.
func parseRequest(body []byte) (models.SMSRequest, error) {
	var req models.SMSRequest

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return req, errors.NewValidationError(msgMissingFields, "empty body")
	}

	result, err := inputSchema.Validate(trimmed)
	if err != nil {
		return req, errors.NewValidationError(msgInvalidBody, err.Error())
	}
	if !result.Valid {
		if result.HasCode(validation.CodeRequired) {
			return req, errors.NewValidationError(msgMissingFields, result.String())
		}
		return req, errors.NewValidationError(msgInvalidBody, result.String())
	}

	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, errors.NewValidationError(msgInvalidBody, err.Error())
	}
	if req.To == "" || req.Message == "" {
		return req, errors.NewValidationError(msgMissingFields, "to and message must be non-empty")
	}

	return req, nil
}

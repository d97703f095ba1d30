package sendemail

import (
	"bytes"
	"encoding/json"

	"notification-relay/internal/common/errors"
	"notification-relay/internal/common/validation"
	"notification-relay/internal/models"
)

const (
	msgMissingFields = "Missing required fields"
	msgInvalidBody   = "Invalid request body"
	msgInvalidEmail  = "Invalid email address"
	msgInvalidType   = "Invalid notification type"
)

// Nulls are accepted everywhere and decode to "".
var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["type", "to"],
	"properties": {
		"type":          {"type": ["string", "null"]},
		"to":            {"type": ["string", "null"]},
		"residentName":  {"type": ["string", "null"]},
		"propertyName":  {"type": ["string", "null"]},
		"unitNumber":    {"type": ["string", "null"]},
		"category":      {"type": ["string", "null"]},
		"description":   {"type": ["string", "null"]},
		"scheduledDate": {"type": ["string", "null"]}
	}
}`)

// parseRequest applies the checks in order: presence, email shape, type.
func parseRequest(body []byte) (models.NotificationRequest, error) {
	var req models.NotificationRequest

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

	if req.Type == "" || req.To == "" {
		return req, errors.NewValidationError(msgMissingFields, "type and to must be non-empty")
	}
	if !validation.IsEmail(req.To) {
		return req, errors.NewValidationError(msgInvalidEmail, "to does not look like an email address")
	}
	if !req.Type.Valid() {
		return req, errors.NewValidationError(msgInvalidType, "type: "+string(req.Type))
	}

	return req, nil
}

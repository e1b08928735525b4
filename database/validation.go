package database

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"pulse/models"
)

// Field limits and pagination bounds. Shared by create, update and
// search paths so the rules cannot drift between them.
const (
	MaxDescriptionLength      = 10000
	MaxServiceNameLength      = 255
	MaxOrganizationNameLength = 255
	MaxCorrelationIDLength    = 100
	MaxDurationMs             = 864_000_000 // 10 days
	DefaultLimit              = 100
	MaxLimit                  = 1000
)

var (
	serviceNamePattern      = regexp.MustCompile(`^[a-zA-Z0-9_.\-]+$`)
	organizationNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.\-\s]+$`)
	controlCharPattern      = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

func validateServiceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("service_name", "cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxServiceNameLength {
		return "", newValidationError("service_name", "too long (max %d characters)", MaxServiceNameLength)
	}
	if !serviceNamePattern.MatchString(name) {
		return "", newValidationError("service_name", "contains invalid characters")
	}
	return name, nil
}

func validateOrganizationName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", newValidationError("organization_name", "cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxOrganizationNameLength {
		return "", newValidationError("organization_name", "too long (max %d characters)", MaxOrganizationNameLength)
	}
	if !organizationNamePattern.MatchString(name) {
		return "", newValidationError("organization_name", "contains invalid characters")
	}
	return name, nil
}

// validateTextField trims, length-checks and strips control characters
// from a free-text field. Empty after processing means absent, not "".
func validateTextField(field string, value *string, maxLength int) (*string, error) {
	if value == nil {
		return nil, nil
	}

	// Limits count characters, not bytes; multibyte text must not be
	// penalized for its encoding.
	v := strings.TrimSpace(*value)
	if utf8.RuneCountInString(v) > maxLength {
		return nil, newValidationError(field, "too long (max %d characters)", maxLength)
	}

	v = controlCharPattern.ReplaceAllString(v, "")
	if v == "" {
		return nil, nil
	}
	return &v, nil
}

func validateStatus(status string) (models.Status, error) {
	s := models.Status(status)
	if !s.Valid() {
		return "", newValidationError("status", "invalid value %q, must be one of: success, error, pending", status)
	}
	return s, nil
}

func validateDuration(field string, durationMs int64) (int64, error) {
	if durationMs < 0 {
		return 0, newValidationError(field, "cannot be negative")
	}
	if durationMs > MaxDurationMs {
		return 0, newValidationError(field, "too large (max %d ms)", int64(MaxDurationMs))
	}
	return durationMs, nil
}

func validateCorrelationID(value *string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(v) > MaxCorrelationIDLength {
		return nil, newValidationError("correlation_id", "too long (max %d characters)", MaxCorrelationIDLength)
	}
	return &v, nil
}

// clampLimit and clampOffset never fail: out-of-range pagination input
// is coerced server-side regardless of what the caller supplied.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and DAG identifiers. Content hashes in practice are
// 40 or 64 hex characters; the limit only guards against garbage input.
const maxIDLength = 256

// ValidateNodeID validates a changeset identifier supplied by a caller.
//
// Identifiers are opaque to mergebase, so the rules only reject input that
// can never be a real identifier:
//   - No empty identifiers (the empty string is reserved for the implied root)
//   - Maximum length of 256 characters
//   - No control characters or whitespace
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id %q contains invalid characters", id)
		}
	}
	return nil
}

// ValidateDagID validates a DAG identifier. DAG ids double as key prefixes
// in the Redis and Mongo stores, so separators used by those stores are
// rejected.
func ValidateDagID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "dag id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "dag id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "dag id %q contains invalid characters", id)
		}
	}
	if strings.ContainsAny(id, ":\x00") {
		return New(ErrCodeInvalidInput, "dag id %q cannot contain ':'", id)
	}
	return nil
}

// SplitIDs splits a comma-separated identifier list, trimming whitespace and
// dropping empty entries. Each remaining id is validated.
func SplitIDs(s string) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := ValidateNodeID(part); err != nil {
			return nil, err
		}
		ids = append(ids, part)
	}
	return ids, nil
}

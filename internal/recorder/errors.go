package recorder

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers used to classify session failures. Wrap tags an error with
// one of these so callers can branch on the class without parsing messages.
var (
	// ErrLaunch marks a capture tool that could not be spawned at all. The
	// session ends without consuming a retry slot: no time was accrued.
	ErrLaunch = errors.New("launch error")
	// ErrConfiguration marks a session abandoned because its channel or
	// subscription is not configured. Not transient, never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrExternalTool marks a capture tool failure after a successful spawn.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error that carries session context while tagging it with the
// provided marker for classification.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "recorder failure"
	}
	return strings.Join(parts, ": ")
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
)

// ValidationError reports every rule a value broke. Fields maps the JSON
// name of each offending field to a client-safe message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

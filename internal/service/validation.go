package service

import (
	"fmt"
	"strings"

	"CommunitySpaces/internal/onboarding"
	"CommunitySpaces/pkg/errors"
)

// ValidationError 携带逐字段原因的业务错误，errors.Is 可匹配到 Def。
type ValidationError struct {
	Def        errors.Definition
	Violations []onboarding.Violation
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("%s: %s", e.Def.Message, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Def }

func invalid(def errors.Definition, violations []onboarding.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Def: def, Violations: violations}
}

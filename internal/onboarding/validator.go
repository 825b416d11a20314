package onboarding

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Violation 单个字段的校验失败信息。
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IsStepValid 判断草稿是否满足离开该步骤的条件，纯函数，无副作用。
func IsStepValid(step Step, d Draft) bool {
	return len(Violations(step, d)) == 0
}

// Violations 返回阻止离开该步骤的全部原因；未配置规则的步骤恒为空。
func Violations(step Step, d Draft) []Violation {
	if !step.Valid() {
		return []Violation{{Field: "step", Message: "Unknown step"}}
	}

	rule := steps[step].validate
	if rule == nil {
		return nil
	}
	return rule(&d)
}

// ValidEmail 简单的 local@domain.tld 格式检查。
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validateProfile(d *Draft) []Violation {
	var out []Violation

	if strings.TrimSpace(d.Name) == "" {
		out = append(out, Violation{Field: "name", Message: "Full Name is required"})
	}
	if strings.TrimSpace(d.Handle) == "" {
		out = append(out, Violation{Field: "handle", Message: "Username is required"})
	}

	email := strings.TrimSpace(d.ContactEmail)
	switch {
	case email == "":
		out = append(out, Violation{Field: "contact_email", Message: "Email is required"})
	case !ValidEmail(email):
		out = append(out, Violation{Field: "contact_email", Message: "Email is invalid"})
	}

	// short_bio 可选
	return out
}

func validateInterests(d *Draft) []Violation {
	if len(d.Interests) == 0 {
		return []Violation{{Field: "interests", Message: "Select at least one interest"}}
	}
	return nil
}

func validateSpaces(d *Draft) []Violation {
	if len(d.JoinedSpaceIDs) == 0 {
		return []Violation{{Field: "joined_space_ids", Message: "Join at least one space"}}
	}
	return nil
}

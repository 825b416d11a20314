package dto

import "CommunitySpaces/internal/onboarding"

// OnboardingProgress 引导会话的当前进度。
type OnboardingProgress struct {
	SessionID                 string           `json:"session_id"`
	CurrentStep               string           `json:"current_step"`
	StepIndex                 int              `json:"step_index"`
	TotalSteps                int              `json:"total_steps"`
	Steps                     []string         `json:"steps"`
	Draft                     onboarding.Draft `json:"draft"`
	CancelConfirmationVisible bool             `json:"cancel_confirmation_visible"`
	CanAdvance                bool             `json:"can_advance"`
}

// ToggleInterestRequest 切换兴趣
type ToggleInterestRequest struct {
	Interest string `json:"interest"`
}

// ToggleSpaceRequest 切换空间
type ToggleSpaceRequest struct {
	SpaceID string `json:"space_id"`
}

// CancelResult 取消请求的结果。Cancelled 为 false 时需要用户确认。
type CancelResult struct {
	Cancelled            bool                `json:"cancelled"`
	ConfirmationRequired bool                `json:"confirmation_required"`
	Progress             *OnboardingProgress `json:"progress,omitempty"`
}

// OnboardingFinished 引导完成响应
type OnboardingFinished struct {
	Profile ProfileData `json:"profile"`
	Tokens  TokenPair   `json:"tokens"`
}

package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// Is 按错误码比较，便于 errors.Is 匹配包装后的 Definition。
func (d Definition) Is(target error) bool {
	t, ok := target.(Definition)
	return ok && t.Code == d.Code
}

// 通用错误。
var (
	InvalidRequest  = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	Unauthorized    = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden       = Definition{Code: "FORBIDDEN", Message: "Forbidden"}
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
	InternalError   = Definition{Code: "INTERNAL_ERROR", Message: "Internal error"}
)

// 认证相关错误。
var (
	TokenInvalid        = Definition{Code: "TOKEN_INVALID", Message: "Token invalid"}
	TokenExpired        = Definition{Code: "TOKEN_EXPIRED", Message: "Token expired"}
	RefreshTokenInvalid = Definition{Code: "REFRESH_TOKEN_INVALID", Message: "Refresh token invalid"}
	InvalidProfileID    = Definition{Code: "INVALID_PROFILE_ID", Message: "Invalid profile ID format"}
)

// 引导流程错误。
var (
	OnboardingSessionNotFound = Definition{Code: "ONBOARDING_SESSION_NOT_FOUND", Message: "Onboarding session not found or expired"}
	OnboardingStepBlocked     = Definition{Code: "ONBOARDING_STEP_BLOCKED", Message: "Current step is not complete"}
	OnboardingNoNextStep      = Definition{Code: "ONBOARDING_NO_NEXT_STEP", Message: "Already at the last step"}
	OnboardingNotFinalStep    = Definition{Code: "ONBOARDING_NOT_FINAL_STEP", Message: "Onboarding can only be finished at the completion step"}
	OnboardingBusy            = Definition{Code: "ONBOARDING_BUSY", Message: "Onboarding session is busy, retry shortly"}
	InvalidPlatform           = Definition{Code: "INVALID_PLATFORM", Message: "Unsupported social platform"}
	InterestUnknown           = Definition{Code: "INTEREST_UNKNOWN", Message: "Unknown interest"}
)

// 个人资料错误。
var (
	ProfileNotFound    = Definition{Code: "PROFILE_NOT_FOUND", Message: "Profile not found"}
	ProfileHandleTaken = Definition{Code: "PROFILE_HANDLE_TAKEN", Message: "Username is already taken"}
	ProfileInvalid     = Definition{Code: "PROFILE_INVALID", Message: "Profile is invalid"}
)

// 项目错误。
var (
	ProjectNotFound      = Definition{Code: "PROJECT_NOT_FOUND", Message: "Project not found"}
	ProjectInvalid       = Definition{Code: "PROJECT_INVALID", Message: "Project is invalid"}
	ProjectFilterUnknown = Definition{Code: "PROJECT_FILTER_UNKNOWN", Message: "Unknown feed filter or sort"}
)

// 空间错误。
var (
	SpaceNotFound = Definition{Code: "SPACE_NOT_FOUND", Message: "Space not found"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidRequest.Code:            InvalidRequest,
	Unauthorized.Code:              Unauthorized,
	Forbidden.Code:                 Forbidden,
	TooManyRequests.Code:           TooManyRequests,
	InternalError.Code:             InternalError,
	TokenInvalid.Code:              TokenInvalid,
	TokenExpired.Code:              TokenExpired,
	RefreshTokenInvalid.Code:       RefreshTokenInvalid,
	InvalidProfileID.Code:          InvalidProfileID,
	OnboardingSessionNotFound.Code: OnboardingSessionNotFound,
	OnboardingStepBlocked.Code:     OnboardingStepBlocked,
	OnboardingNoNextStep.Code:      OnboardingNoNextStep,
	OnboardingNotFinalStep.Code:    OnboardingNotFinalStep,
	OnboardingBusy.Code:            OnboardingBusy,
	InvalidPlatform.Code:           InvalidPlatform,
	InterestUnknown.Code:           InterestUnknown,
	ProfileNotFound.Code:           ProfileNotFound,
	ProfileHandleTaken.Code:        ProfileHandleTaken,
	ProfileInvalid.Code:            ProfileInvalid,
	ProjectNotFound.Code:           ProjectNotFound,
	ProjectInvalid.Code:            ProjectInvalid,
	ProjectFilterUnknown.Code:      ProjectFilterUnknown,
	SpaceNotFound.Code:             SpaceNotFound,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

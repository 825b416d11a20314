package onboarding

// ShouldConfirmCancel 判断取消前是否需要二次确认。
// 第一步和最后一步没有可丢失的进度，直接取消；中间步骤需要确认。
func ShouldConfirmCancel(stepIndex, totalSteps int) bool {
	if totalSteps <= 0 {
		return false
	}
	return stepIndex != 0 && stepIndex != totalSteps-1
}

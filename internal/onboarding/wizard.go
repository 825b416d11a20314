// Package onboarding 实现新用户引导向导的状态机：
// 步骤推进/回退、逐步校验、草稿合并以及取消确认。
//
// Wizard 是单一所有者的同步对象，所有操作在一次调用内完成，
// 不持有锁也不启动 goroutine；跨请求的保存与恢复通过 State 完成。
package onboarding

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoNextStep 已在最后一步，无法继续前进。
	ErrNoNextStep = errors.New("onboarding: already at the last step")
	// ErrNotFinalStep 只有在完成步骤才能结束引导。
	ErrNotFinalStep = errors.New("onboarding: finish is only allowed at the completion step")
	// ErrInvalidState 恢复的状态不满足不变量。
	ErrInvalidState = errors.New("onboarding: invalid wizard state")
)

// BlockedError 当前步骤校验未通过，前进被阻止。
type BlockedError struct {
	Step       Step
	Violations []Violation
}

func (e *BlockedError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fmt.Sprintf("onboarding: step %s blocked: %s", e.Step, strings.Join(fields, ", "))
}

// Hooks 向导与外部协作方的两个窄接口。
type Hooks struct {
	// OnComplete 在完成步骤执行 Finish 时收到完整草稿。
	// 返回错误时向导保持原状态，调用方可重试。
	OnComplete func(Draft) error
	// OnCancel 在取消生效时调用，无参数。
	OnCancel func()
}

// State 向导的可序列化快照。
type State struct {
	StepIndex                 int   `json:"step_index"`
	Draft                     Draft `json:"draft"`
	CancelConfirmationVisible bool  `json:"cancel_confirmation_visible"`
}

// Wizard 引导向导控制器。
type Wizard struct {
	step          Step
	draft         Draft
	confirmCancel bool
	hooks         Hooks
}

// New 创建处于欢迎步骤、草稿为空的向导。
func New(hooks Hooks) *Wizard {
	return &Wizard{hooks: hooks}
}

// Restore 从快照恢复向导。
func Restore(st State, hooks Hooks) (*Wizard, error) {
	step := Step(st.StepIndex)
	if !step.Valid() {
		return nil, fmt.Errorf("%w: step index %d", ErrInvalidState, st.StepIndex)
	}
	return &Wizard{
		step:          step,
		draft:         st.Draft.Clone(),
		confirmCancel: st.CancelConfirmationVisible,
		hooks:         hooks,
	}, nil
}

// State 返回当前快照（草稿为深拷贝）。
func (w *Wizard) State() State {
	return State{
		StepIndex:                 int(w.step),
		Draft:                     w.draft.Clone(),
		CancelConfirmationVisible: w.confirmCancel,
	}
}

func (w *Wizard) Step() Step                      { return w.step }
func (w *Wizard) Draft() Draft                    { return w.draft.Clone() }
func (w *Wizard) CancelConfirmationVisible() bool { return w.confirmCancel }

// CanAdvance 当前步骤是否允许前进。
func (w *Wizard) CanAdvance() bool {
	return !w.step.Last() && IsStepValid(w.step, w.draft)
}

// MergeDraft 将部分更新合并进草稿，不校验。
func (w *Wizard) MergeDraft(p DraftPatch) {
	w.draft.Merge(p)
}

func (w *Wizard) ToggleInterest(interest string) { w.draft.ToggleInterest(interest) }
func (w *Wizard) ToggleSpace(spaceID string)     { w.draft.ToggleSpace(spaceID) }

// Advance 校验当前步骤并前进一步。
// 校验失败返回 *BlockedError，步骤与草稿均不变。
func (w *Wizard) Advance() error {
	if w.step.Last() {
		return ErrNoNextStep
	}
	if violations := Violations(w.step, w.draft); len(violations) > 0 {
		return &BlockedError{Step: w.step, Violations: violations}
	}
	w.step++
	return nil
}

// Retreat 无条件回退一步，草稿保留；已在第一步时返回 false。
func (w *Wizard) Retreat() bool {
	if w.step.First() {
		return false
	}
	w.step--
	return true
}

// RequestCancel 请求取消。需要确认时仅展示确认框并返回 true；
// 否则立即取消并返回 false。
func (w *Wizard) RequestCancel() bool {
	if ShouldConfirmCancel(int(w.step), TotalSteps) {
		w.confirmCancel = true
		return true
	}
	w.cancel()
	return false
}

// ConfirmCancel 用户确认取消：丢弃草稿并通知调用方。
func (w *Wizard) ConfirmCancel() {
	w.cancel()
}

// DismissCancel 关闭确认框，继续引导。
func (w *Wizard) DismissCancel() {
	w.confirmCancel = false
}

// Finish 在完成步骤提交草稿，成功后向导重置为初始状态。
func (w *Wizard) Finish() error {
	if !w.step.Last() {
		return ErrNotFinalStep
	}
	if w.hooks.OnComplete != nil {
		if err := w.hooks.OnComplete(w.draft.Clone()); err != nil {
			return err
		}
	}
	w.reset()
	return nil
}

func (w *Wizard) cancel() {
	w.reset()
	if w.hooks.OnCancel != nil {
		w.hooks.OnCancel()
	}
}

func (w *Wizard) reset() {
	w.step = StepWelcome
	w.draft = Draft{}
	w.confirmCancel = false
}

package onboarding

// Step 引导流程中的步骤，取值即步骤下标。
type Step int

const (
	StepWelcome Step = iota
	StepProfile
	StepInterests
	StepSpaces
	StepCompletion
)

// TotalSteps 引导流程固定的步骤数。
const TotalSteps = 5

// stepDef 描述单个步骤：对外名称与前进前的校验规则（nil 表示不校验）。
type stepDef struct {
	name     string
	validate func(d *Draft) []Violation
}

// steps 以步骤下标索引的分发表。
var steps = [TotalSteps]stepDef{
	StepWelcome:    {name: "welcome"},
	StepProfile:    {name: "profile", validate: validateProfile},
	StepInterests:  {name: "interests", validate: validateInterests},
	StepSpaces:     {name: "spaces", validate: validateSpaces},
	StepCompletion: {name: "completion"},
}

// Valid 判断步骤下标是否落在 [0, TotalSteps) 内。
func (s Step) Valid() bool {
	return s >= 0 && int(s) < TotalSteps
}

func (s Step) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return steps[s].name
}

// First / Last 用于取消确认的边界判断。
func (s Step) First() bool { return s == StepWelcome }
func (s Step) Last() bool  { return int(s) == TotalSteps-1 }

// StepNames 按顺序返回所有步骤名称，供进度条展示。
func StepNames() []string {
	names := make([]string, TotalSteps)
	for i := range steps {
		names[i] = steps[i].name
	}
	return names
}

// ParseStep 将步骤名称解析为 Step。
func ParseStep(name string) (Step, bool) {
	for i := range steps {
		if steps[i].name == name {
			return Step(i), true
		}
	}
	return 0, false
}

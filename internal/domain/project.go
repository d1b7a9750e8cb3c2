package domain

import "time"

// DefaultSteps is the pipeline used when a project does not define its own.
var DefaultSteps = []string{"New", "Qualified", "Meeting", "Closed"}

// Project represents a sales pipeline: an ordered list of steps that leads
// move through from left to right.
type Project struct {
	ID        string
	Name      string
	Steps     []string
	CreatedAt time.Time
}

// StepIndex returns the position of a step in the pipeline, or -1 if the
// step does not belong to this project.
func (p *Project) StepIndex(step string) int {
	for i, s := range p.Steps {
		if s == step {
			return i
		}
	}
	return -1
}

// HasStep reports whether the step belongs to this project's pipeline.
func (p *Project) HasStep(step string) bool {
	return p.StepIndex(step) >= 0
}

// FirstStep returns the entry step of the pipeline.
func (p *Project) FirstStep() string {
	if len(p.Steps) == 0 {
		return ""
	}
	return p.Steps[0]
}

// FinalStep returns the last step of the pipeline.
func (p *Project) FinalStep() string {
	if len(p.Steps) == 0 {
		return ""
	}
	return p.Steps[len(p.Steps)-1]
}

// IsFinalStep reports whether the step is the last one in the pipeline.
func (p *Project) IsFinalStep(step string) bool {
	return len(p.Steps) > 0 && p.FinalStep() == step
}

// NextStep returns the step following current, clamped at the final step.
// An unknown current step resolves to the first step.
func (p *Project) NextStep(current string) string {
	if len(p.Steps) == 0 {
		return current
	}
	idx := p.StepIndex(current)
	if idx < 0 {
		return p.Steps[0]
	}
	if idx+1 >= len(p.Steps) {
		return p.FinalStep()
	}
	return p.Steps[idx+1]
}

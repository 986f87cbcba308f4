package progress

import (
	"math"

	"github.com/abhisek/learnpath/internal/catalog"
)

// Progress maps a skill key to the learner's checklist state for that skill.
// Keys are sparse: an absent step or item means "not completed".
type Progress map[string]SkillProgress

// SkillProgress holds per-step checklist state, keyed by step index.
type SkillProgress struct {
	Steps map[int]StepProgress `json:"steps"`
}

// StepProgress holds per-item completion, keyed by checklist item index.
type StepProgress struct {
	Checklist map[int]bool `json:"checklist"`
}

// Toggle returns a copy of p with the given checklist item set to completed.
// Missing intermediate entries are created. p itself is never modified.
func Toggle(p Progress, skillKey string, stepIndex, itemIndex int, completed bool) Progress {
	out := make(Progress, len(p)+1)
	for k, v := range p {
		out[k] = v
	}

	sp := cloneSkill(p[skillKey])
	st := cloneStep(sp.Steps[stepIndex])
	st.Checklist[itemIndex] = completed
	sp.Steps[stepIndex] = st
	out[skillKey] = sp
	return out
}

// IsDone reports whether the given checklist item is completed.
func (p Progress) IsDone(skillKey string, stepIndex, itemIndex int) bool {
	return p[skillKey].Steps[stepIndex].Checklist[itemIndex]
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	if p == nil {
		return nil
	}
	out := make(Progress, len(p))
	for k, v := range p {
		out[k] = cloneSkill(v)
	}
	return out
}

// CompletedItems counts true leaves for a skill, ignoring positions the
// roadmap does not define.
func CompletedItems(skill catalog.Skill, p Progress) int {
	sp, ok := p[skill.Key]
	if !ok {
		return 0
	}
	n := 0
	for i, step := range skill.Roadmap.Steps {
		st, ok := sp.Steps[i]
		if !ok {
			continue
		}
		for j := range step.Checklist {
			if st.Checklist[j] {
				n++
			}
		}
	}
	return n
}

// StepComplete reports whether every item of a roadmap step is done.
// Steps without items are never complete.
func StepComplete(skill catalog.Skill, p Progress, stepIndex int) bool {
	if stepIndex < 0 || stepIndex >= len(skill.Roadmap.Steps) {
		return false
	}
	items := skill.Roadmap.Steps[stepIndex].Checklist
	if len(items) == 0 {
		return false
	}
	for j := range items {
		if !p.IsDone(skill.Key, stepIndex, j) {
			return false
		}
	}
	return true
}

// Completion returns the rounded completion percentage for a skill in the
// catalog. Unknown skills and skills without checklist items report 0.
func Completion(cat *catalog.Catalog, p Progress, skillKey string) int {
	skill, ok := cat.Lookup(skillKey)
	if !ok {
		return 0
	}
	return SkillCompletion(skill, p)
}

// SkillCompletion is Completion for an already resolved skill.
func SkillCompletion(skill catalog.Skill, p Progress) int {
	total := skill.TotalItems()
	if total == 0 {
		return 0
	}
	done := CompletedItems(skill, p)
	return int(math.Round(float64(done) / float64(total) * 100))
}

func cloneSkill(sp SkillProgress) SkillProgress {
	out := SkillProgress{Steps: make(map[int]StepProgress, len(sp.Steps)+1)}
	for k, v := range sp.Steps {
		out.Steps[k] = cloneStep(v)
	}
	return out
}

func cloneStep(st StepProgress) StepProgress {
	out := StepProgress{Checklist: make(map[int]bool, len(st.Checklist)+1)}
	for k, v := range st.Checklist {
		out.Checklist[k] = v
	}
	return out
}

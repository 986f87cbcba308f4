package roadmap

import "github.com/abhisek/learnpath/internal/coach"

// StepCompleteNotice is shown when a toggle finishes a whole step.
const StepCompleteNotice = "Step complete! Keep going! 🎯"

type tipReadyMsg struct {
	step int
	item int
	tip  *coach.Tip
	err  error
}

package coach

import (
	"fmt"
	"strings"
)

const tipSystemPrompt = `You are a friendly study coach helping a self-taught developer work through a learning roadmap. Keep advice concrete and brief.`

func buildTipUserMessage(input TipInput) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Skill: %s\n", input.Skill.Name))
	if input.Skill.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", input.Skill.Description))
	}
	b.WriteString(fmt.Sprintf("Step: %s\n", input.Step.Title))
	if input.Step.Description != "" {
		b.WriteString(fmt.Sprintf("Step goal: %s\n", input.Step.Description))
	}
	b.WriteString(fmt.Sprintf("Checklist item: %s\n", input.Item))
	if input.Done {
		b.WriteString("The learner has already checked this item off.\n")
	}

	b.WriteString(`
Instructions:
1. Suggest how to practice or verify this item in 2-4 sentences.
2. If the learner already finished it, suggest a way to go one level deeper.
3. List at most 3 resources by name (books, official docs, courses). No URLs.
4. Use plain text. No markdown.`)

	return b.String()
}

package coach

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a practical digital privacy coach. A user has just completed a privacy self-assessment and wants specific, realistic steps to improve the weakest areas. Do not sell products and do not shame the user.`

func buildUserMessage(f Focus) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Category: %s\n", f.Category)
	fmt.Fprintf(&b, "Category score: %d%%", f.Percentage)
	if f.Risk != "" {
		fmt.Fprintf(&b, " (%s risk)", f.Risk)
	}
	b.WriteString("\n")

	b.WriteString("\nAnswers in this category:\n")
	if len(f.Answers) == 0 {
		b.WriteString("None\n")
	} else {
		for _, a := range f.Answers {
			fmt.Fprintf(&b, "- %s -> %s\n", a.Question, a.Answer)
		}
	}

	if len(f.Steps) > 0 {
		b.WriteString("\nGeneric advice already shown:\n")
		for _, s := range f.Steps {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}

	fmt.Fprintf(&b, `
Instructions:
Give at most %d tips that:
1. Address the specific answers above, starting with the weakest one.
2. Can each be done in under 30 minutes with free tools or built-in settings.
3. Go beyond the generic advice instead of repeating it.
4. Use plain text. No markdown, no links.`, MaxTips)

	return b.String()
}

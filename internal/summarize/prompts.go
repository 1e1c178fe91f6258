package summarize

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"
)

const (
	initialPrefix = "Summarize the changes made in this commit. "
	initialSuffix = "\nCONCISE SUMMARY:"

	existingMarker = "We have provided an existing summary up to a certain point: "
	sectionRule    = "------------\n"
)

var initialTemplate = prompts.PromptTemplate{
	Template:       initialPrefix + "{{.text}}" + initialSuffix,
	InputVariables: []string{"text"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

var refineTemplate = prompts.PromptTemplate{
	Template: "Your job is to produce a final summary of the work done given some commit data. " +
		"Generate the text as a comment that will be posted on an issue tracker. " +
		"Act as you were the developer and you will post your work of the day. " +
		"Don't provide specific dates or hours, neither path of the files. " +
		"Just summarize at a global level what was the main change.\n" +
		"If the amount of changes is too big, you can summarize the main changes using a paragraph.\n" +
		existingMarker + "{{.existing_answer}}\n" +
		"We have the opportunity to refine the existing summary " +
		"(only if needed) with some more context below.\n" +
		sectionRule +
		"{{.text}}\n" +
		sectionRule +
		"Given the new context, refine the original summary. " +
		"If the context isn't useful, return the original summary.",
	InputVariables: []string{"existing_answer", "text"},
	TemplateFormat: prompts.TemplateFormatGoTemplate,
}

// InitialPrompt renders the prompt that seeds a branch summary from its first chunk.
func InitialPrompt(text string) (string, error) {
	return initialTemplate.Format(map[string]any{"text": text})
}

// RefinePrompt renders the prompt that folds one more chunk into a running summary.
func RefinePrompt(existing, text string) (string, error) {
	return refineTemplate.Format(map[string]any{
		"existing_answer": existing,
		"text":            text,
	})
}

func parseInitialPrompt(prompt string) (string, bool) {
	if !strings.HasPrefix(prompt, initialPrefix) || !strings.HasSuffix(prompt, initialSuffix) {
		return "", false
	}
	return prompt[len(initialPrefix) : len(prompt)-len(initialSuffix)], true
}

func parseRefinePrompt(prompt string) (existing, text string, ok bool) {
	const (
		opening = "\nWe have the opportunity to refine the existing summary " +
			"(only if needed) with some more context below.\n" + sectionRule
		closing = "\n" + sectionRule + "Given the new context"
	)

	start := strings.Index(prompt, existingMarker)
	mid := strings.Index(prompt, opening)
	end := strings.LastIndex(prompt, closing)
	if start == -1 || mid < start || end < mid+len(opening) {
		return "", "", false
	}
	return prompt[start+len(existingMarker) : mid], prompt[mid+len(opening) : end], true
}

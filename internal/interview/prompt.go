package interview

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"
)

//go:embed system_prompt.tmpl
var systemPromptTemplate string

type systemPromptData struct {
	Document string
}

// buildSystemPrompt synthesizes the priming instruction for a session from the
// uploaded source document
func buildSystemPrompt(document string) (string, error) {
	tmpl, err := template.New("system_prompt").Parse(systemPromptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse system prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, systemPromptData{Document: document}); err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return buf.String(), nil
}

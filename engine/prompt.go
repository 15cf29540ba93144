package engine

import (
	"strings"
	"text/template"

	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"github.com/habiliai/memoryruntime/memory"
)

const systemPromptTemplate = `{{- if .System}}{{.System}}

{{end -}}
Your name is {{.Name}}.
{{- if .Role}} Your role is {{.Role}}.{{end}}
{{- if .Prompt}}

{{.Prompt}}
{{- end}}
{{- if .Memories}}

Things you remember from previous conversations with this user:
{{- range .Memories}}
- {{.Content}}{{if .Author}} (by {{.Author}}{{if .Timestamp}}, {{.Timestamp}}{{end}}){{end}}
{{- end}}

Use these memories when they are relevant to the user's request.
{{- end}}`

type systemPromptData struct {
	Name     string
	Role     string
	System   string
	Prompt   string
	Memories []memory.Entry
}

var systemPromptTmpl = template.Must(template.New("systemPrompt").Parse(systemPromptTemplate))

// BuildSystemPrompt renders the agent definition and any recalled
// memories into a single system prompt.
func BuildSystemPrompt(agent entity.Agent, memories []memory.Entry) (string, error) {
	var sb strings.Builder
	if err := systemPromptTmpl.Execute(&sb, systemPromptData{
		Name:     agent.Name,
		Role:     agent.Role,
		System:   agent.System,
		Prompt:   agent.Prompt,
		Memories: memories,
	}); err != nil {
		return "", errors.Wrapf(err, "failed to render system prompt")
	}

	return strings.TrimSpace(sb.String()), nil
}

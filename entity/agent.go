package entity

type Agent struct {
	// Name is the agent's display name, also used as the app name when
	// persisting sessions to memory.
	Name string `json:"name"`

	Role        string `json:"role,omitempty"`
	Description string `json:"description,omitempty"`

	// System is prepended to every model call.
	System string `json:"system,omitempty"`

	// Prompt describes the agent's persona and behavior.
	Prompt string `json:"prompt,omitempty"`

	// ModelName selects the provider and model, e.g. "openai/gpt-4o" or
	// "anthropic/claude-sonnet-4-20250514".
	ModelName string `json:"modelName,omitempty"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

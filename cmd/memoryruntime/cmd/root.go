package cmd

import (
	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/entity"
	"github.com/habiliai/memoryruntime/errors"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "memoryruntime",
		Short:        "Agent runtime with OpenMemory-backed long-term memory",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newChatCmd(),
		newDemoCmd(),
		newHealthCmd(),
	)

	return cmd
}

func loadAgent(agentFile string) (entity.Agent, error) {
	if agentFile == "" {
		// Default demo agent when no file is given
		return entity.Agent{
			Name:      "MemoryBot",
			Role:      "Assistant",
			System:    "Be concise and helpful.",
			Prompt:    "You are a helpful assistant that remembers previous conversations with the user.",
			ModelName: "openai/gpt-4o",
		}, nil
	}

	conf, err := config.LoadAgentFromFile(agentFile)
	if err != nil {
		return entity.Agent{}, err
	}
	if conf.Name == "" {
		return entity.Agent{}, errors.Wrapf(errors.ErrInvalidConfig, "agent file %s has no name", agentFile)
	}

	return entity.Agent{
		Name:        conf.Name,
		Role:        conf.Role,
		Description: conf.Description,
		System:      conf.System,
		Prompt:      conf.Prompt,
		ModelName:   conf.Model,
		Metadata:    conf.Metadata,
	}, nil
}

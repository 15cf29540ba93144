package cmd

import (
	"fmt"

	"github.com/habiliai/memoryruntime"
	"github.com/habiliai/memoryruntime/internal/mylog"
	"github.com/spf13/cobra"
)

// The demo walks the two illustrative flows end to end: a first session
// whose turns are persisted to OpenMemory, then a fresh session that
// answers from recall.
func newDemoCmd() *cobra.Command {
	params := &struct {
		AgentFile string
		UserID    string
	}{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Save a short session to memory, then recall from a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := mylog.NewLogger("info", "default")

			agent, err := loadAgent(params.AgentFile)
			if err != nil {
				return err
			}

			runtime, err := memoryruntime.NewRuntime(ctx,
				memoryruntime.WithAgent(agent),
				memoryruntime.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			defer runtime.Close()

			// First session: a couple of turns, then flush to memory.
			first, err := runtime.CreateSession(ctx, params.UserID)
			if err != nil {
				return err
			}

			for _, prompt := range []string{
				"Hi! My name is Dana and I work on embedded firmware.",
				"My favorite language is Rust, though I debug mostly C.",
			} {
				fmt.Printf("user: %s\n", prompt)
				res, err := runtime.Run(ctx, first.ID, prompt)
				if err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", agent.Name, res.Text)
			}

			if err := runtime.SaveSession(ctx, first.ID); err != nil {
				return err
			}
			fmt.Printf("Saved session %s to memory.\n\n", first.ID)

			// Second session: a fresh transcript, answered from recall.
			second, err := runtime.CreateSession(ctx, params.UserID)
			if err != nil {
				return err
			}

			question := "What do you remember about me and my work?"
			fmt.Printf("user: %s\n", question)
			res, err := runtime.Run(ctx, second.ID, question)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", agent.Name, res.Text)

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&params.AgentFile, "agent", "a", "", "agent definition file (yaml)")
	f.StringVarP(&params.UserID, "user", "u", "demo-user", "user id for session and memory scoping")

	return cmd
}

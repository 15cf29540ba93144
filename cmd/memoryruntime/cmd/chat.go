package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/habiliai/memoryruntime"
	"github.com/habiliai/memoryruntime/internal/mylog"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	params := &struct {
		AgentFile        string
		UserID           string
		SessionStorePath string
		SaveOnExit       bool
	}{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with an agent; session is saved to memory on exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := mylog.NewLogger("info", "default")

			agent, err := loadAgent(params.AgentFile)
			if err != nil {
				return err
			}

			runtime, err := memoryruntime.NewRuntime(ctx,
				memoryruntime.WithAgent(agent),
				memoryruntime.WithLogger(logger),
				memoryruntime.WithSessionStorePath(params.SessionStorePath),
			)
			if err != nil {
				return err
			}
			defer runtime.Close()

			sess, err := runtime.CreateSession(ctx, params.UserID)
			if err != nil {
				return err
			}
			fmt.Printf("Chatting with %s (session %s). Type 'exit' to quit.\n", agent.Name, sess.ID)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				res, err := runtime.Run(ctx, sess.ID, line)
				if err != nil {
					logger.Error("turn failed", "err", err)
					continue
				}
				fmt.Printf("%s: %s\n", agent.Name, res.Text)
			}

			if params.SaveOnExit {
				if err := runtime.SaveSession(ctx, sess.ID); err != nil {
					return err
				}
				fmt.Println("Session saved to memory.")
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&params.AgentFile, "agent", "a", "", "agent definition file (yaml)")
	f.StringVarP(&params.UserID, "user", "u", "default-user", "user id for session and memory scoping")
	f.StringVar(&params.SessionStorePath, "session-store", ":memory:", "sqlite path for the session store")
	f.BoolVar(&params.SaveOnExit, "save", true, "save the session to memory on exit")

	return cmd
}

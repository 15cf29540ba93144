package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"os"

	"github.com/habiliai/memoryruntime/config"
	"github.com/habiliai/memoryruntime/internal/mylog"
	"github.com/habiliai/memoryruntime/openmemory"
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	params := &struct {
		Watch    bool
		Interval time.Duration
	}{}

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe the OpenMemory server's health endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			conf, err := config.ResolveOpenMemoryConfig()
			if err != nil {
				return err
			}

			client := openmemory.NewClient(conf.BaseURL, conf.APIKey, conf.Timeout)

			if params.Watch {
				logger := mylog.NewLogger("info", "default")
				openmemory.NewHealthChecker(client, logger, params.Interval).Run(ctx)
				return nil
			}

			status, err := client.Health(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s\n", conf.BaseURL, status.Status)
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&params.Watch, "watch", "w", false, "keep probing and log state transitions")
	f.DurationVar(&params.Interval, "interval", 60*time.Second, "probe interval in watch mode")

	return cmd
}

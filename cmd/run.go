// -- cmd/run.go --
package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/visor-ai/visor/internal/agent"
	"github.com/visor-ai/visor/internal/browser"
	"github.com/visor-ai/visor/internal/llmclient"
	"github.com/visor-ai/visor/internal/observability"
)

var runURL string

// runCmd executes one task against a target page.
var runCmd = &cobra.Command{
	Use:   "run \"objective\"",
	Short: "Run a browser task driven by the vision model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := observability.GetLogger()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		model, err := llmclient.New(ctx, cfg.Model, logger)
		if err != nil {
			return err
		}

		session, err := browser.NewSession(ctx, cfg.Browser, logger)
		if err != nil {
			return err
		}
		defer session.Close()

		a := agent.New(cfg.Agent, cfg.Model, model, session, logger)
		steps, err := a.Run(ctx, agent.Task{
			Objective: args[0],
			TargetURL: runURL,
		})
		for _, step := range steps {
			logger.Info("Step",
				zap.Int("index", step.Index),
				zap.String("action", step.ActionType),
				zap.String("outcome", step.Content),
				zap.String("error", step.Err))
		}
		if err != nil {
			return fmt.Errorf("task did not complete: %w", err)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runURL, "url", "u", "", "target URL to open before the first step")
	_ = runCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(runCmd)
}

package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"telerec/internal/channels"
	"telerec/internal/logging"
	"telerec/internal/recorder"
)

// newRecordCommand records a channel right now for a fixed duration, without
// touching the programme queue or requiring the daemon.
func newRecordCommand(ctx *commandContext) *cobra.Command {
	var (
		subscription string
		duration     time.Duration
		output       string
	)

	cmd := &cobra.Command{
		Use:   "record <channel>",
		Short: "Record a channel immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			channel := strings.TrimSpace(args[0])
			sub := strings.TrimSpace(subscription)
			if sub == "" {
				sub = cfg.Scheduler.PrincipalSubscription
			}
			if duration <= 0 {
				return fmt.Errorf("duration must be positive")
			}

			directory, err := channels.LoadFile(cfg.Paths.ChannelsFile)
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(output)
			if name == "" {
				name = fmt.Sprintf("%s-%s.ts", channel, time.Now().Format("20060102-150405"))
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			registry := recorder.NewRegistry()
			supervisor := recorder.NewSupervisor(recorder.SupervisorOptions{
				RecordingsDir: cfg.Paths.RecordingsDir,
				Policy: recorder.PolicyFromSeconds(
					cfg.Capture.GiveUpFloorSeconds,
					cfg.Capture.StabilityThresholdSeconds,
					cfg.Capture.RetryDelaysSeconds,
				),
				Resolver: directory,
				Runner:   recorder.NewCaptureRunner(cfg.Capture.Binary),
				Registry: registry,
				Logger:   logger,
			})

			now := time.Now()
			sess := recorder.NewSession(sub, channel, name, now, now.Add(duration))

			done := make(chan error, 1)
			go func() { done <- supervisor.Run(signalCtx, sess) }()

			select {
			case err := <-done:
				return err
			case <-signalCtx.Done():
				registry.Close(syscall.SIGINT)
				<-done
				fmt.Fprintln(cmd.OutOrStdout(), "Recording interrupted.")
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&subscription, "subscription", "s", "", "Subscription holding the channel (defaults to the principal one)")
	cmd.Flags().DurationVarP(&duration, "duration", "d", time.Hour, "How long to record, e.g. 90m")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file name (derived from channel and time when empty)")
	return cmd
}

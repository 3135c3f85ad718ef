package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"telerec/internal/programs"
)

func newProgramCommand(ctx *commandContext) *cobra.Command {
	programCmd := &cobra.Command{
		Use:   "program",
		Short: "Manage the programme queue",
	}

	programCmd.AddCommand(newProgramListCommand(ctx))
	programCmd.AddCommand(newProgramAddCommand(ctx))
	programCmd.AddCommand(newProgramRemoveCommand(ctx))

	return programCmd
}

func newProgramListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List planned recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			entries, err := programs.NewStore(cfg.ProgramsFile()).Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No programmes planned.")
				return nil
			}

			now := time.Now()
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				status := "planned"
				switch {
				case entry.Expired(now):
					status = "expired"
				case entry.Due(now):
					status = "recording"
				}
				subscription := entry.Subscription
				if subscription == "" {
					subscription = cfg.Scheduler.PrincipalSubscription
				}
				rows = append(rows, []string{
					entry.Channel,
					subscription,
					entry.Start.Local().Format("2006-01-02 15:04"),
					entry.End.Local().Format("2006-01-02 15:04"),
					entry.OutputName,
					status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Channel", "Subscription", "Start", "End", "Output", "Status"},
				rows,
				nil,
			))
			return nil
		},
	}
}

func newProgramAddCommand(ctx *commandContext) *cobra.Command {
	var (
		channel      string
		subscription string
		start        string
		end          string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			startAt, err := parseLocalTime(start)
			if err != nil {
				return fmt.Errorf("start time: %w", err)
			}
			endAt, err := parseLocalTime(end)
			if err != nil {
				return fmt.Errorf("end time: %w", err)
			}

			name := strings.TrimSpace(output)
			if name == "" {
				name = fmt.Sprintf("%s-%s.ts", channel, startAt.Format("20060102-1504"))
			}

			entry := programs.Entry{
				Subscription: strings.TrimSpace(subscription),
				Channel:      strings.TrimSpace(channel),
				OutputName:   name,
				Start:        programs.StampUTC{Time: startAt},
				End:          programs.StampUTC{Time: endAt},
			}
			if err := programs.NewStore(cfg.ProgramsFile()).Append(entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned %s on %s from %s to %s\n",
				name, entry.Channel, startAt.Format("2006-01-02 15:04"), endAt.Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Channel name as listed in the directory")
	cmd.Flags().StringVar(&subscription, "subscription", "", "Subscription holding the channel (defaults to the principal one)")
	cmd.Flags().StringVar(&start, "start", "", "Start time, e.g. \"2026-08-30 21:00\"")
	cmd.Flags().StringVar(&end, "end", "", "End time, e.g. \"2026-08-30 22:35\"")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file name (derived from channel and start when empty)")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newProgramRemoveCommand(ctx *commandContext) *cobra.Command {
	var (
		channel string
		start   string
		end     string
	)

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a planned recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			startAt, err := parseLocalTime(start)
			if err != nil {
				return fmt.Errorf("start time: %w", err)
			}
			endAt, err := parseLocalTime(end)
			if err != nil {
				return fmt.Errorf("end time: %w", err)
			}

			key := programs.Entry{
				Channel: strings.TrimSpace(channel),
				Start:   programs.StampUTC{Time: startAt},
				End:     programs.StampUTC{Time: endAt},
			}.Key()

			removed, err := programs.NewStore(cfg.ProgramsFile()).Remove(key)
			if err != nil {
				return err
			}
			if removed == 0 {
				return fmt.Errorf("no programme matches channel %q with that window", channel)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d programme(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "Channel of the programme to remove")
	cmd.Flags().StringVar(&start, "start", "", "Start time of the programme")
	cmd.Flags().StringVar(&end, "end", "", "End time of the programme")
	_ = cmd.MarkFlagRequired("channel")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

var localTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

func parseLocalTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("value is required")
	}
	for _, layout := range localTimeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

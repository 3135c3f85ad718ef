package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"telerec/internal/journal"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var showAttempts string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent recording sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(filepath.Join(cfg.Paths.LogDir, "history.db"))
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()

			if showAttempts != "" {
				attempts, err := store.Attempts(cmd.Context(), showAttempts)
				if err != nil {
					return err
				}
				if len(attempts) == 0 {
					fmt.Fprintln(out, "No attempts recorded for that session.")
					return nil
				}
				rows := make([][]string, 0, len(attempts))
				for _, a := range attempts {
					exit := "failed"
					if a.ExitOK {
						exit = "clean"
					}
					rows = append(rows, []string{
						strconv.Itoa(a.Attempt),
						a.Elapsed.String(),
						exit,
						a.Action,
						a.Delay.String(),
						strconv.Itoa(a.FastFailures),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Elapsed", "Exit", "Decision", "Delay", "Failures"},
					rows,
					[]columnAlignment{alignRight, alignRight},
				))
				return nil
			}

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No recording history yet.")
				return nil
			}

			title := fmt.Sprintf("Last %d sessions", len(records))
			if shouldColorize(out) {
				title = ansiBlue + title + ansiReset
			}
			fmt.Fprintln(out, title)

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				outcome := rec.Outcome
				if outcome == "" {
					outcome = "in progress"
				}
				rows = append(rows, []string{
					rec.StartedAt.Local().Format("2006-01-02 15:04"),
					rec.Channel,
					rec.Subscription,
					rec.OutputName,
					strconv.Itoa(rec.Attempts),
					outcome,
					rec.ID,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Channel", "Subscription", "Output", "Attempts", "Outcome", "Session"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of sessions to show")
	cmd.Flags().StringVar(&showAttempts, "attempts", "", "Show the attempts of one session by id")
	return cmd
}

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"telerec/internal/channels"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	var subscription string

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List configured subscriptions and channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			directory, err := channels.LoadFile(cfg.Paths.ChannelsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			filter := strings.TrimSpace(subscription)
			shown := 0
			for _, record := range directory.Records() {
				if filter != "" && !strings.EqualFold(record.Name, filter) {
					continue
				}
				shown++

				names := make([]string, 0, len(record.Channels))
				for name := range record.Channels {
					names = append(names, name)
				}
				sort.Strings(names)

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name, record.Channels[name]})
				}
				fmt.Fprintf(out, "Subscription: %s (%d channels)\n", record.Name, len(names))
				fmt.Fprintln(out, renderTable([]string{"Channel", "URL"}, rows, nil))
			}
			if shown == 0 {
				if filter != "" {
					return fmt.Errorf("no subscription named %q", filter)
				}
				fmt.Fprintln(out, "No subscriptions configured.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&subscription, "subscription", "s", "", "Only show this subscription")
	return cmd
}

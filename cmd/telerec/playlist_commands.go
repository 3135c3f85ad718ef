package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"telerec/internal/playlist"
)

func newPlaylistCommand() *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Work with provider M3U playlists",
	}

	playlistCmd.AddCommand(newPlaylistJSONCommand())
	playlistCmd.AddCommand(newPlaylistSplitCommand())
	playlistCmd.AddCommand(newPlaylistGroupsCommand())

	return playlistCmd
}

func newPlaylistJSONCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "json <playlist.m3u>",
		Short: "Convert a playlist to a grouped JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := playlist.ConvertFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
}

func newPlaylistSplitCommand() *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "split <playlist.m3u>",
		Short: "Split a playlist into one file per group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := playlist.ParseFile(args[0])
			if err != nil {
				return err
			}
			paths, err := playlist.SplitByGroup(channels, outputDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d group playlists under %s\n", len(paths), outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "groups", "Directory for the per-group playlists")
	return cmd
}

func newPlaylistGroupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "groups <playlist.m3u>",
		Short: "List the groups in a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channels, err := playlist.ParseFile(args[0])
			if err != nil {
				return err
			}
			groups := playlist.GroupChannels(channels)
			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				rows = append(rows, []string{group.Name, strconv.Itoa(len(group.Channels))})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Group", "Channels"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

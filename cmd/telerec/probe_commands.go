package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"telerec/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a capture's picture quality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			result, err := probe.Inspect(cmd.Context(), cfg.FFprobeBinary(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Property", "Value"},
				[][]string{
					{"Resolution", result.Resolution()},
					{"Frame rate", result.FrameRate()},
					{"Scan type", result.ScanType()},
					{"Video codec", result.VideoCodec()},
					{"Bitrate", fmt.Sprintf("%d kbps", result.BitRateKbps())},
				},
				nil,
			))
			return nil
		},
	}
}

// newSamplesCommand inspects every sample capture under the recordings
// directory and reports per-channel picture quality.
func newSamplesCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Report picture quality for sample captures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			samplesDir := strings.TrimSpace(dir)
			if samplesDir == "" {
				samplesDir = filepath.Join(cfg.Paths.RecordingsDir, "samples")
			}

			files, err := os.ReadDir(samplesDir)
			if err != nil {
				return fmt.Errorf("read samples directory: %w", err)
			}

			out := cmd.OutOrStdout()
			var rows [][]string
			for _, file := range files {
				if file.IsDir() || !strings.HasSuffix(file.Name(), ".ts") {
					continue
				}
				name, ok := probe.ParseSampleName(file.Name())
				if !ok {
					continue
				}

				result, err := probe.Inspect(cmd.Context(), cfg.FFprobeBinary(), filepath.Join(samplesDir, file.Name()))
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", file.Name(), err)
					continue
				}
				rows = append(rows, []string{
					name.Subscription,
					name.Channel,
					name.ID,
					result.Resolution(),
					result.FrameRate(),
					result.ScanType(),
					strconv.FormatInt(result.BitRateKbps(), 10) + " kbps",
				})
			}
			if len(rows) == 0 {
				fmt.Fprintf(out, "No samples found under %s\n", samplesDir)
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Subscription", "Channel", "ID", "Resolution", "Framerate", "Scan", "Bitrate"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Samples directory (defaults to <recordings>/samples)")
	return cmd
}

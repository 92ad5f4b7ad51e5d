package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/Beastly713/hexglitch/pkg/encode"
	"github.com/Beastly713/hexglitch/pkg/intensity"
	"github.com/Beastly713/hexglitch/pkg/pipeline"
	"github.com/Beastly713/hexglitch/pkg/report"
	"github.com/Beastly713/hexglitch/pkg/selector"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var glitchCmd = &cobra.Command{
	Use:   "glitch [input] [output]",
	Short: "Corrupt the frame data of an AVI file",
	Long: `Glitch finds every 00dc frame chunk in the input, picks the frames to
corrupt with the chosen strategy and overwrites parts of their payload with
glitch patterns. The output has exactly the same size as the input.

When --max-glitches is not given and stdin is a terminal, you are asked how
many frames to corrupt.

Example:
  hexglitch glitch input.avi output.avi --strategy random --value 20 --intensity high

  This corrupts a random 20% of the frames with the "high" profile.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		sourcePath, outputPath := args[0], args[1]
		inputPath := sourcePath
		out := cmd.OutOrStdout()

		// 1. Resolve settings
		settings, err := loadRunSettings(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		fmt.Fprintln(out, "hexglitch - Video Hex Corruption Tool")
		fmt.Fprintln(out, strings.Repeat("=", 40))
		if len(settings.patternNames) == 1 {
			fmt.Fprintf(out, "Using pattern: %s\n", settings.patternNames[0])
		} else {
			fmt.Fprintf(out, "Using %d patterns\n", len(settings.patternNames))
		}

		var opts []pipeline.Option
		opts = append(opts, pipeline.WithLogger(logger))
		if settings.seeded {
			fmt.Fprintf(out, "Using random seed: %d\n", settings.seed)
			opts = append(opts, pipeline.WithSeed(settings.seed))
		}

		// 2. Optional re-encode into a temp file
		if settings.autoEncode {
			fmt.Fprintln(out, "[Auto-Encode] Re-encoding input with FFmpeg for smear-friendly structure...")
			tmp, encErr := encode.New(logger).Reencode(cmd.Context(), inputPath)
			if encErr != nil {
				return fmt.Errorf("auto-encode: %w", encErr)
			}
			inputPath = tmp
			defer func() {
				err = multierr.Append(err, encode.Cleanup(tmp))
			}()
		}

		// 3. Ask how many frames to corrupt
		if settings.interactive {
			n, promptErr := promptMaxGlitches(cmd, inputPath, settings)
			if promptErr != nil {
				return promptErr
			}
			settings.config.MaxGlitches = n
		}

		if progressEnabled() {
			opts = append(opts, pipeline.WithProgress(newProgress(cmd)))
		}

		// 4. Run
		res, err := pipeline.Run(inputPath, outputPath, settings.config, opts...)
		if err != nil {
			logger.Error("run failed", zap.Error(err))
			return fmt.Errorf("hex fucking failed: %w", err)
		}

		// 5. Report
		fmt.Fprintf(out, "Loaded video file: %d bytes\n", res.InputSize)
		fmt.Fprintf(out, "Found %d frame chunks\n", res.Chunks)
		fmt.Fprintf(out, "Targeting %d frames for hex fucking\n", len(res.Selected))
		if settings.config.Smear {
			fmt.Fprintf(out, "[Smear Mode] Applied %d smear hex fucks with %d stable patterns\n", res.Applied, res.SmearPatterns)
		} else {
			fmt.Fprintf(out, "Applied %d hex fucks (%s intensity)\n", res.Applied, settings.level)
		}
		fmt.Fprintf(out, "Saved hex fucked video: %s\n", outputPath)

		if settings.showLog {
			report.WriteLog(out, res.Log)
		}
		if settings.recordPath != "" {
			header := newRecordHeader(sourcePath, outputPath, settings, res)
			if err := writeRecord(settings.recordPath, header, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved run record: %s\n", settings.recordPath)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, report.Summary(res, settings.config.Smear))
		return nil
	},
}

func promptMaxGlitches(cmd *cobra.Command, inputPath string, settings *runSettings) (int, error) {
	preview, err := pipeline.Inspect(inputPath, settings.config)
	if err != nil {
		return 0, fmt.Errorf("error analyzing video: %w", err)
	}

	var desc string
	value := settings.config.Value
	switch settings.config.Strategy {
	case selector.EveryNth:
		desc = fmt.Sprintf("Every %dth frame would target ~%d frames", value, preview.Selected)
	case selector.RandomPercent:
		desc = fmt.Sprintf("Random %d%% would target ~%d frames", value, preview.Selected)
	case selector.TimeOffset:
		desc = fmt.Sprintf("Time offset from frame %d would target ~%d frames", value, preview.Selected)
	}
	summary := fmt.Sprintf("Found %d frames in the video\nCurrent strategy (%s): %s\nCurrent max-glitches limit: %d",
		preview.Chunks, settings.config.Strategy, desc, settings.config.MaxGlitches)

	return runFramePrompt(cmd.InOrStdin(), cmd.OutOrStdout(), preview.Chunks, summary)
}

func progressEnabled() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}

func newProgress(cmd *cobra.Command) func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("corrupting frames"),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
		if done == total {
			_ = bar.Finish()
		}
	}
}

func init() {
	rootCmd.AddCommand(glitchCmd)

	glitchCmd.Flags().String("strategy", "every_nth", "Frame targeting strategy: "+strings.Join(selector.Names(), ", "))
	glitchCmd.Flags().Int("value", 10, "Strategy value (N for every_nth, % for random, start frame for time_offset)")
	glitchCmd.Flags().Int("max-glitches", 50, "Maximum number of frames to corrupt (0 for no limit)")
	glitchCmd.Flags().String("pattern", "all", `Glitch pattern(s): a name, a comma separated list, or "all"`)
	glitchCmd.Flags().String("intensity", intensity.Default.String(), "Glitch intensity: "+strings.Join(intensity.Names(), ", "))
	glitchCmd.Flags().Bool("smear-mode", false, "Drag a few stable patterns across frames for temporal smear effects")
	glitchCmd.Flags().Int64("seed", 0, "Random seed for reproducible results")
	glitchCmd.Flags().Bool("log", false, "Print the detailed glitch log")
	glitchCmd.Flags().String("record", "", "Save a run record (settings, seed, digests, log) to this file; .zst and .gz are compressed")
	glitchCmd.Flags().Bool("auto-encode", false, "Re-encode the input with FFmpeg for a smear-friendly structure first")
	glitchCmd.Flags().Bool("interactive", false, "Always ask how many frames to corrupt")
	glitchCmd.Flags().Bool("no-interactive", false, "Never ask how many frames to corrupt")
}

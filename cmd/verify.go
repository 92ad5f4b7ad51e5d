package cmd

import (
	"fmt"
	"os"

	"github.com/Beastly713/hexglitch/pkg/report"
	"github.com/spf13/cobra"
)

var (
	verifyInput   bool
	verifyShowLog bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify [record] [file]",
	Short: "Check a file against a run record",
	Long: `Verify reads a record written by "glitch --record" and checks that the
file has the recorded size and digest. By default the file is compared with
the recorded output; use --input to check the original input instead.

Example:
  hexglitch glitch in.avi out.avi --seed 7 --record run.rec.zst
  hexglitch verify run.rec.zst out.avi`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordPath, filePath := args[0], args[1]
		out := cmd.OutOrStdout()

		rec, err := readRecord(recordPath)
		if err != nil {
			return err
		}
		h := rec.Header

		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		if err := h.Verify(data, verifyInput); err != nil {
			return fmt.Errorf("%s: %w", filePath, err)
		}

		what := "output"
		if verifyInput {
			what = "input"
		}
		fmt.Fprintf(out, "%s matches the recorded %s (%d bytes)\n", filePath, what, h.Size)
		fmt.Fprintf(out, "Recorded run: %s %d, %s intensity, seed %d, %d overwrites on %d of %d frames\n",
			h.Strategy, h.Value, h.Intensity, h.Seed, h.Applied, len(h.Selected), h.Chunks)

		if verifyShowLog {
			report.WriteLog(out, rec.Log)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVar(&verifyInput, "input", false, "Compare with the recorded input instead of the output")
	verifyCmd.Flags().BoolVar(&verifyShowLog, "log", false, "Print the recorded glitch log")
}

package cmd

import (
	"bytes"
	"fmt"

	"github.com/Beastly713/hexglitch/pkg/avi"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var (
	sampleFrames    int
	sampleFrameSize int
	sampleNoIndex   bool
)

var sampleCmd = &cobra.Command{
	Use:   "sample [output]",
	Short: "Write a minimal AVI file to experiment with",
	Long: `Sample writes a small RIFF/AVI container made of identical frame chunks.
It is not a playable video, but its chunk layout is the same as a real file,
which makes it handy for trying out strategies and intensities.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := "sample.avi"
		if len(args) > 0 {
			outPath = args[0]
		}

		if err := writeSampleFile(outPath, avi.SampleOptions{
			Frames:    sampleFrames,
			FrameSize: sampleFrameSize,
			Index:     !sampleNoIndex,
		}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d frames of %d bytes)\n", outPath, sampleFrames, sampleFrameSize)
		return nil
	},
}

func writeSampleFile(path string, opts avi.SampleOptions) error {
	var buf bytes.Buffer
	if err := avi.WriteSample(&buf, opts); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntVarP(&sampleFrames, "frames", "f", avi.DefaultSampleOptions.Frames, "Number of frame chunks")
	sampleCmd.Flags().IntVar(&sampleFrameSize, "frame-size", avi.DefaultSampleOptions.FrameSize, "Payload bytes per frame")
	sampleCmd.Flags().BoolVar(&sampleNoIndex, "no-index", false, "Do not append an idx1 chunk")
}

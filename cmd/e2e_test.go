package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Beastly713/hexglitch/cmd"
	"github.com/Beastly713/hexglitch/pkg/format"
	"github.com/Beastly713/hexglitch/pkg/patterns"
	"github.com/Beastly713/hexglitch/pkg/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default so each Execute starts
// from a clean command tree.
func resetFlags(c *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(c.Flags())
	reset(c.PersistentFlags())
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.GetRootCmd()
	resetFlags(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func makeSample(t *testing.T, dir string, frames, size int) string {
	t.Helper()
	path := filepath.Join(dir, "input.avi")
	_, err := execute(t, "sample", path, "--frames", strconv.Itoa(frames), "--frame-size", strconv.Itoa(size), "--no-index")
	require.NoError(t, err, "sample command failed")
	return path
}

// TestGlitchRoundTrip simulates the full user journey: sample -> glitch -> inspect output
func TestGlitchRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	input := makeSample(t, tmpDir, 20, 4096)
	output := filepath.Join(tmpDir, "output.avi")

	out, err := execute(t, "glitch", input, output,
		"--no-interactive", "--seed", "7", "--intensity", "high", "--strategy", "every_nth", "--value", "2", "--log",
		"--patterns-file", filepath.Join(tmpDir, "none.json"))
	require.NoError(t, err, "glitch command failed:\n%s", out)

	original, err := os.ReadFile(input)
	require.NoError(t, err)
	corrupted, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, len(original), len(corrupted), "output must keep the input size")
	assert.NotEqual(t, original, corrupted, "output should be corrupted")
	assert.Contains(t, out, "Found 20 frame chunks")
	assert.Contains(t, out, "Targeting 10 frames")
	assert.Contains(t, out, "Hex Fuck Log")
	assert.Contains(t, out, "(high intensity)")
}

func TestGlitchDeterministicSeed(t *testing.T) {
	tmpDir := t.TempDir()
	input := makeSample(t, tmpDir, 15, 3000)
	outA := filepath.Join(tmpDir, "a.avi")
	outB := filepath.Join(tmpDir, "b.avi")

	args := []string{"--no-interactive", "--seed", "1234", "--strategy", "random", "--value", "60", "--intensity", "fucked",
		"--patterns-file", filepath.Join(tmpDir, "none.json")}

	_, err := execute(t, append([]string{"glitch", input, outA}, args...)...)
	require.NoError(t, err)
	_, err = execute(t, append([]string{"glitch", input, outB}, args...)...)
	require.NoError(t, err)

	a, _ := os.ReadFile(outA)
	b, _ := os.ReadFile(outB)
	if !bytes.Equal(a, b) {
		t.Fatal("Two runs with the same seed produced different files")
	}
}

func TestGlitchSmearMode(t *testing.T) {
	tmpDir := t.TempDir()
	input := makeSample(t, tmpDir, 12, 120000)
	output := filepath.Join(tmpDir, "smear.avi")

	out, err := execute(t, "glitch", input, output,
		"--no-interactive", "--smear-mode", "--seed", "3", "--value", "1", "--max-glitches", "0",
		"--patterns-file", filepath.Join(tmpDir, "none.json"))
	require.NoError(t, err, out)

	assert.Contains(t, out, "[Smear Mode] Applied 10 smear hex fucks")
}

func TestGlitchErrors(t *testing.T) {
	tmpDir := t.TempDir()
	noPatterns := filepath.Join(tmpDir, "none.json")

	// 1. Missing input
	_, err := execute(t, "glitch", filepath.Join(tmpDir, "missing.avi"), filepath.Join(tmpDir, "out.avi"),
		"--no-interactive", "--patterns-file", noPatterns)
	assert.ErrorIs(t, err, pipeline.ErrInputNotFound)

	// 2. Not an AVI
	plain := filepath.Join(tmpDir, "notes.txt")
	require.NoError(t, os.WriteFile(plain, []byte("just some text, no frames here"), 0644))
	_, err = execute(t, "glitch", plain, filepath.Join(tmpDir, "out.avi"), "--no-interactive", "--patterns-file", noPatterns)
	assert.ErrorIs(t, err, pipeline.ErrNoFrameChunks)

	// 3. Unknown pattern
	input := makeSample(t, tmpDir, 4, 512)
	_, err = execute(t, "glitch", input, filepath.Join(tmpDir, "out.avi"),
		"--no-interactive", "--pattern", "whiteout,sparkles", "--patterns-file", noPatterns)
	assert.ErrorIs(t, err, patterns.ErrUnknownPattern)

	// 4. Unknown strategy
	_, err = execute(t, "glitch", input, filepath.Join(tmpDir, "out.avi"),
		"--no-interactive", "--strategy", "sometimes", "--patterns-file", noPatterns)
	assert.Error(t, err)
}

func TestGlitchEnvAndConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	input := makeSample(t, tmpDir, 10, 2048)
	output := filepath.Join(tmpDir, "out.avi")
	noPatterns := filepath.Join(tmpDir, "none.json")

	// 1. Environment overrides the default
	t.Setenv("HEXGLITCH_INTENSITY", "low")
	out, err := execute(t, "glitch", input, output, "--no-interactive", "--seed", "1", "--patterns-file", noPatterns)
	require.NoError(t, err, out)
	assert.Contains(t, out, "(low intensity)")

	// 2. An explicit flag overrides the environment
	out, err = execute(t, "glitch", input, output, "--no-interactive", "--seed", "1", "--intensity", "medium", "--patterns-file", noPatterns)
	require.NoError(t, err, out)
	assert.Contains(t, out, "(medium intensity)")

	// 3. Config file values apply when no flag is given
	cfgPath := filepath.Join(tmpDir, "hexglitch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("max-glitches: 3\nvalue: 1\n"), 0644))
	out, err = execute(t, "glitch", input, output, "--no-interactive", "--config", cfgPath, "--patterns-file", noPatterns)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Targeting 3 frames")
}

func TestRecordAndVerify(t *testing.T) {
	tmpDir := t.TempDir()
	input := makeSample(t, tmpDir, 16, 2048)
	output := filepath.Join(tmpDir, "out.avi")
	noPatterns := filepath.Join(tmpDir, "none.json")

	for _, name := range []string{"run.rec", "run.rec.zst", "run.rec.gz"} {
		t.Run(name, func(t *testing.T) {
			record := filepath.Join(tmpDir, name)

			// 1. Glitch and keep a record
			out, err := execute(t, "glitch", input, output,
				"--no-interactive", "--seed", "21", "--record", record, "--patterns-file", noPatterns)
			require.NoError(t, err, out)
			assert.Contains(t, out, "Saved run record: "+record)

			// 2. The output matches
			out, err = execute(t, "verify", record, output, "--log")
			require.NoError(t, err, out)
			assert.Contains(t, out, "matches the recorded output")
			assert.Contains(t, out, "seed 21")
			assert.Contains(t, out, "Hex Fuck Log")

			// 3. The untouched input matches the input digest only
			_, err = execute(t, "verify", record, input, "--input")
			require.NoError(t, err)

			_, err = execute(t, "verify", record, input)
			assert.ErrorIs(t, err, format.ErrDigestMismatch)
		})
	}

	// A garbage record is rejected
	bogus := filepath.Join(tmpDir, "bogus.rec")
	require.NoError(t, os.WriteFile(bogus, []byte("not a record"), 0644))
	_, err := execute(t, "verify", bogus, output)
	assert.Error(t, err)
}

func TestPatternsCommand(t *testing.T) {
	tmpDir := t.TempDir()

	out, err := execute(t, "patterns", "--patterns-file", filepath.Join(tmpDir, "none.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "whiteout")
	assert.Contains(t, out, "garbage_binary")
	assert.Contains(t, out, "Total patterns available: 7")

	custom := filepath.Join(tmpDir, "custom.json")
	require.NoError(t, os.WriteFile(custom, []byte(`[
		// a single custom pattern
		{"name": "stripes", "description": "thin stripes", "pattern": ["FF", "00"]},
	]`), 0644))
	out, err = execute(t, "patterns", "--patterns-file", custom)
	require.NoError(t, err)
	assert.Contains(t, out, "stripes")
	assert.Contains(t, out, "Total patterns available: 1")
}

func TestDemoCommand(t *testing.T) {
	tmpDir := t.TempDir()
	input := makeSample(t, tmpDir, 30, 2048)

	out, err := execute(t, "demo", input, "--seed", "9", "--patterns-file", filepath.Join(tmpDir, "none.json"))
	require.NoError(t, err, out)

	for _, suffix := range []string{"whiteout", "checkerboard", "rainbow", "garbage", "mixed"} {
		path := filepath.Join(tmpDir, "input_"+suffix+".avi")
		info, err := os.Stat(path)
		require.NoError(t, err, "demo output %s missing", suffix)

		orig, _ := os.Stat(input)
		assert.Equal(t, orig.Size(), info.Size(), "demo output %s changed size", suffix)
	}
	assert.Contains(t, out, "All demo hex fucks completed!")
}

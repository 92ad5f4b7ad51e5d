package encode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Encoder re-encodes videos into a layout that smears well: long GOPs,
// B-frames and no audio, so most 00dc chunks are predicted frames.
type Encoder struct {
	Binary string
	TmpDir string
	Logger *zap.Logger
}

// New returns an Encoder that runs "ffmpeg" from PATH and writes to the
// system temp directory.
func New(logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{Binary: "ffmpeg", TmpDir: os.TempDir(), Logger: logger}
}

// Args returns the ffmpeg arguments used to re-encode input into output.
func Args(input, output string) []string {
	return []string{
		"-y", "-i", input,
		"-c:v", "libxvid",
		"-bf", "2",
		"-g", "150",
		"-keyint_min", "150",
		"-sc_threshold", "0",
		"-an",
		output,
	}
}

// Reencode writes a re-encoded copy of input to a new temporary file and
// returns its path. The caller owns the file and should pass it to Cleanup.
func (e *Encoder) Reencode(ctx context.Context, input string) (string, error) {
	tmp := filepath.Join(e.TmpDir, fmt.Sprintf("hexglitch-%s.avi", uuid.NewString()))

	cmd := exec.CommandContext(ctx, e.Binary, Args(input, tmp)...)
	e.Logger.Debug("running ffmpeg", zap.Strings("args", cmd.Args))

	if out, err := cmd.CombinedOutput(); err != nil {
		e.Logger.Warn("ffmpeg failed", zap.Error(err), zap.ByteString("output", tail(out, 2048)))
		// ffmpeg may have created a partial file
		_ = os.Remove(tmp)
		return "", fmt.Errorf("ffmpeg re-encode failed: %w", err)
	}
	return tmp, nil
}

// Cleanup removes a temporary file created by Reencode. A file that is
// already gone is not an error.
func Cleanup(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove temp file %s: %w", path, err)
	}
	return nil
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}

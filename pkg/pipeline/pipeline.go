package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Beastly713/hexglitch/pkg/avi"
	"github.com/Beastly713/hexglitch/pkg/glitch"
	"github.com/Beastly713/hexglitch/pkg/intensity"
	"github.com/Beastly713/hexglitch/pkg/selector"
	"github.com/cespare/xxhash/v2"
	"github.com/natefinch/atomic"
	"go.uber.org/zap"
)

// Smear mode tuning.
const (
	smearSkipLeading = 2 // leading targets left alone, usually key frames
	smearStepMin     = 4000
	smearStepMax     = 8000 // exclusive
	smearMaxStable   = 3
)

// Config holds the parameters of one corruption run.
type Config struct {
	// Patterns is the pool fill data is drawn from. Must be non-empty.
	Patterns [][]byte

	Strategy selector.Strategy

	// Value is the strategy argument: stride, percentage or start frame.
	Value int

	// MaxGlitches caps the number of targeted frames. Zero or negative
	// disables the cap.
	MaxGlitches int

	Profile intensity.Profile

	// Smear switches from scattered overwrites to one drifting 1 KiB
	// overwrite per frame.
	Smear bool
}

// Result summarizes a successful run.
type Result struct {
	Stage Stage

	// Seed reproduces the run when passed to WithSeed.
	Seed int64

	InputSize int
	Chunks    int
	Selected  []int

	// Applied is the number of overwrites actually performed.
	Applied int

	// SmearPatterns is the number of stable patterns used in smear mode.
	SmearPatterns int

	Log []glitch.Entry

	InputDigest  uint64
	OutputDigest uint64
}

// Preview is what Inspect reports about an input before a run.
type Preview struct {
	Chunks   int
	Selected int
}

// Run orchestrates the flow: Load -> Locate -> Select -> Corrupt -> Write.
// The output always has the same length as the input. On failure the
// returned error is a *RunError.
func Run(inputPath, outputPath string, cfg Config, opts ...Option) (*Result, error) {
	o := buildOptions(opts)
	logger := o.logger.With(zap.String("input", inputPath))
	rng := o.newRand()

	engine, err := glitch.NewEngine(rng, cfg.Profile, cfg.Patterns, glitch.WithLogger(logger))
	if err != nil {
		return nil, fail(Idle, ErrInvalidConfig, "", err)
	}

	res := &Result{Stage: Idle, Seed: int64(o.seed)}

	// 1. Load
	data, err := load(inputPath)
	if err != nil {
		return nil, err
	}
	res.Stage = Loaded
	res.InputSize = len(data)
	res.InputDigest = xxhash.Sum64(data)
	logger.Debug("loaded input", zap.Int("bytes", len(data)))

	// 2. Locate frame chunks
	chunks := avi.LocateChunks(data)
	if len(chunks) == 0 {
		return nil, fail(ChunksFound, ErrNoFrameChunks, inputPath, nil)
	}
	res.Stage = ChunksFound
	res.Chunks = len(chunks)
	logger.Debug("located frame chunks", zap.Int("chunks", len(chunks)))

	// 3. Select target frames
	res.Selected = selector.Select(len(chunks), cfg.Strategy, cfg.Value, cfg.MaxGlitches, rng)
	res.Stage = FramesSelected
	logger.Debug("selected frames",
		zap.Stringer("strategy", cfg.Strategy),
		zap.Int("value", cfg.Value),
		zap.Int("selected", len(res.Selected)))

	// 4. Corrupt
	res.Stage = Corrupting
	if cfg.Smear {
		res.Applied, res.SmearPatterns = smear(data, chunks, res.Selected, cfg.Patterns, engine, rng, o.progress)
	} else {
		res.Applied = corrupt(data, chunks, res.Selected, engine, o.progress)
	}
	res.Log = engine.Log()
	res.OutputDigest = xxhash.Sum64(data)
	logger.Debug("corruption finished", zap.Int("applied", res.Applied), zap.Bool("smear", cfg.Smear))

	// 5. Write
	if err := writeOutput(outputPath, data); err != nil {
		return nil, fail(Written, ErrOutputWrite, outputPath, err)
	}
	res.Stage = Written
	logger.Info("wrote output",
		zap.String("output", outputPath),
		zap.Int("applied", res.Applied),
		zap.Int("bytes", len(data)))

	res.Stage = Done
	return res, nil
}

// Inspect loads the input and reports how many frames it has and how many
// the configured strategy would target. It uses its own random sequence,
// so it never changes the outcome of a later seeded Run.
func Inspect(inputPath string, cfg Config, opts ...Option) (*Preview, error) {
	o := buildOptions(opts)

	data, err := load(inputPath)
	if err != nil {
		return nil, err
	}
	chunks := avi.LocateChunks(data)
	if len(chunks) == 0 {
		return nil, fail(ChunksFound, ErrNoFrameChunks, inputPath, nil)
	}

	selected := selector.Select(len(chunks), cfg.Strategy, cfg.Value, cfg.MaxGlitches, o.newRand())
	return &Preview{Chunks: len(chunks), Selected: len(selected)}, nil
}

func load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, fail(Loaded, ErrInputNotFound, path, err)
	default:
		return nil, fail(Loaded, ErrInputUnreadable, path, err)
	}
}

func corrupt(data []byte, chunks []avi.Chunk, selected []int, engine *glitch.Engine, progress func(int, int)) int {
	applied := 0
	for i, frame := range selected {
		if frame < len(chunks) {
			c := chunks[frame]
			applied += engine.CorruptChunk(data, c.Offset, c.Size)
		}
		if progress != nil {
			progress(i+1, len(selected))
		}
	}
	return applied
}

// smear picks a few stable patterns and drags them across the selected
// frames at a steadily growing offset into each payload.
func smear(data []byte, chunks []avi.Chunk, selected []int, pool [][]byte, engine *glitch.Engine, rng glitch.Rand, progress func(int, int)) (int, int) {
	stable := pool
	if len(pool) > smearMaxStable {
		k := 2 + rng.IntN(2)
		stable = make([][]byte, 0, k)
		for _, idx := range selector.Sample(rng, len(pool), k) {
			stable = append(stable, pool[idx])
		}
	}

	var running uint64
	applied := 0
	for i, frame := range selected {
		if i >= smearSkipLeading && frame < len(chunks) {
			c := chunks[frame]
			running += uint64(smearStepMin + rng.IntN(smearStepMax-smearStepMin))
			applied += engine.SmearChunk(data, c.Offset, c.Size, running, stable[i%len(stable)])
		}
		if progress != nil {
			progress(i+1, len(selected))
		}
	}
	return applied, len(stable)
}

func writeOutput(path string, data []byte) error {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	// atomic.WriteFile creates new files with temp file permissions
	if !existed {
		if err := os.Chmod(path, 0644); err != nil {
			return fmt.Errorf("failed to set permissions: %w", err)
		}
	}
	return nil
}

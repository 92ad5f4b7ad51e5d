package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/Beastly713/hexglitch/pkg/compression"
	"github.com/Beastly713/hexglitch/pkg/format"
	"github.com/Beastly713/hexglitch/pkg/pipeline"
	"github.com/natefinch/atomic"
)

func newRecordHeader(input, output string, settings *runSettings, res *pipeline.Result) *format.Header {
	return &format.Header{
		Version:      format.Version,
		Input:        input,
		Output:       output,
		Timestamp:    time.Now().Unix(),
		Seed:         res.Seed,
		Strategy:     settings.config.Strategy.String(),
		Value:        settings.config.Value,
		MaxGlitches:  settings.config.MaxGlitches,
		Intensity:    settings.level.String(),
		Smear:        settings.config.Smear,
		Patterns:     settings.patternNames,
		Size:         res.InputSize,
		Chunks:       res.Chunks,
		Selected:     res.Selected,
		Applied:      res.Applied,
		InputDigest:  res.InputDigest,
		OutputDigest: res.OutputDigest,
	}
}

// writeRecord stores a run record, compressed when the path ends in .zst or .gz.
func writeRecord(path string, header *format.Header, res *pipeline.Result) error {
	var buf bytes.Buffer
	if err := format.NewWriter(&buf).Write(header, res.Log); err != nil {
		return err
	}

	data := buf.Bytes()
	if c := compression.ForPath(path); c != nil {
		packed, err := c.Compress(data)
		if err != nil {
			return fmt.Errorf("failed to compress record: %w", err)
		}
		data = packed
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write record %s: %w", path, err)
	}
	return nil
}

func readRecord(path string) (*format.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	if c := compression.ForPath(path); c != nil {
		data, err = c.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress record %s: %w", path, err)
		}
	}

	rec, err := format.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid record %s: %w", path, err)
	}
	return rec, nil
}

package format

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Beastly713/hexglitch/pkg/glitch"
)

// Record is a parsed run record.
type Record struct {
	Header *Header
	Log    []glitch.Entry
}

// NewReader parses a run record from r.
func NewReader(r io.Reader) (*Record, error) {
	bufReader := bufio.NewReader(r)

	// 1. Scan for the Header Marker
	// Limit the scan so garbage files fail fast.
	foundHeader := false
	for i := 0; i < 50; i++ {
		line, err := bufReader.ReadString('\n')
		if strings.TrimSpace(line) == HeaderMarker {
			foundHeader = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read stream while looking for header: %w", err)
		}
	}

	if !foundHeader {
		return nil, fmt.Errorf("invalid format: could not find %q marker", HeaderMarker)
	}

	// 2. Read the JSON content until the Log Marker
	var jsonBuilder bytes.Buffer
	for {
		line, err := bufReader.ReadString('\n')
		if strings.TrimSpace(line) == LogMarker {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid format: could not find %q marker: %w", LogMarker, err)
		}
		jsonBuilder.WriteString(line)
	}

	// 3. Unmarshal and validate the Header
	header := &Header{}
	if err := json.Unmarshal(jsonBuilder.Bytes(), header); err != nil {
		return nil, fmt.Errorf("failed to parse header json: %w", err)
	}
	if err := header.Validate(); err != nil {
		return nil, fmt.Errorf("header validation failed: %w", err)
	}

	// 4. Decode the log entries
	var entries []glitch.Entry
	dec := json.NewDecoder(bufReader)
	for {
		var e glitch.Entry
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse log entry %d: %w", len(entries), err)
		}
		entries = append(entries, e)
	}

	if len(entries) != header.Applied {
		return nil, fmt.Errorf("record lists %d log entries for %d applied overwrites", len(entries), header.Applied)
	}

	return &Record{Header: header, Log: entries}, nil
}

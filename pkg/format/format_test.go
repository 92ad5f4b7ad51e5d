package format

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Beastly713/hexglitch/pkg/glitch"
	"github.com/cespare/xxhash/v2"
)

func sampleRecord() (*Header, []glitch.Entry) {
	header := &Header{
		Version:      Version,
		Input:        "input.avi",
		Output:       "output.avi",
		Timestamp:    1620000000,
		Seed:         42,
		Strategy:     "every_nth",
		Value:        10,
		MaxGlitches:  50,
		Intensity:    "medium",
		Patterns:     []string{"whiteout", "blackout"},
		Size:         4096,
		Chunks:       12,
		Selected:     []int{0, 10},
		Applied:      2,
		InputDigest:  1,
		OutputDigest: 2,
	}
	entries := []glitch.Entry{
		{Offset: 120, Size: 256, Preview: bytes.Repeat([]byte{0xFF}, 16), ChunkOffset: 100},
		{Offset: 2200, Size: 4, Preview: []byte{0x00, 0x00, 0x00, 0x00}, ChunkOffset: 2100},
	}
	return header, entries
}

func TestRoundTrip(t *testing.T) {
	// 1. Setup Input Data
	header, entries := sampleRecord()

	// 2. Write to a buffer (Simulating a file on disk)
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(header, entries); err != nil {
		t.Fatalf("Failed to write record: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# THIS FILE IS A HEXGLITCH RUN RECORD.") {
		t.Error("Record does not start with the magic header")
	}

	// 3. Read back from the buffer
	rec, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}

	// 4. Verify Integrity
	if !reflect.DeepEqual(rec.Header, header) {
		t.Errorf("Headers do not match.\nGot: %+v\nWant: %+v", rec.Header, header)
	}
	if !reflect.DeepEqual(rec.Log, entries) {
		t.Errorf("Log does not match.\nGot: %+v\nWant: %+v", rec.Log, entries)
	}
}

func TestEmptyLog(t *testing.T) {
	header, _ := sampleRecord()
	header.Applied = 0

	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(header, nil); err != nil {
		t.Fatalf("Failed to write record: %v", err)
	}
	rec, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if len(rec.Log) != 0 {
		t.Errorf("Expected empty log, got %d entries", len(rec.Log))
	}
}

func TestWriterRejectsBadHeader(t *testing.T) {
	header, entries := sampleRecord()

	// Log does not match the applied count
	if err := NewWriter(&bytes.Buffer{}).Write(header, entries[:1]); err == nil {
		t.Error("Writer should reject a log shorter than the applied count")
	}

	header.Selected = []int{0, 12}
	if err := NewWriter(&bytes.Buffer{}).Write(header, entries); err == nil {
		t.Error("Writer should reject an out of range selected frame")
	}

	header, _ = sampleRecord()
	header.Version = 99
	if err := NewWriter(&bytes.Buffer{}).Write(header, entries); err == nil {
		t.Error("Writer should reject an unknown version")
	}
}

func TestCorruptFile(t *testing.T) {
	// A file that looks right but has broken JSON
	corruptData := `# THIS FILE IS A HEXGLITCH RUN RECORD.
-- HEADER --
{ "version": 1, "input": "missing_bracket"
-- LOG --
`
	if _, err := NewReader(bytes.NewBufferString(corruptData)); err == nil {
		t.Error("Reader should have failed on corrupt JSON, but succeeded")
	}

	// Truncated log
	header, entries := sampleRecord()
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(header, entries); err != nil {
		t.Fatal(err)
	}
	lines := strings.SplitAfter(buf.String(), "\n")
	truncated := strings.Join(lines[:len(lines)-2], "")
	if _, err := NewReader(strings.NewReader(truncated)); err == nil {
		t.Error("Reader should have failed on a truncated log")
	}
}

func TestVerify(t *testing.T) {
	input := []byte("original video bytes")
	output := []byte("glitched video bytes")

	header, _ := sampleRecord()
	header.Size = len(input)
	header.InputDigest = xxhash.Sum64(input)
	header.OutputDigest = xxhash.Sum64(output)

	if err := header.Verify(output, false); err != nil {
		t.Errorf("Output should verify: %v", err)
	}
	if err := header.Verify(input, true); err != nil {
		t.Errorf("Input should verify: %v", err)
	}
	if err := header.Verify(input, false); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("Expected ErrDigestMismatch, got %v", err)
	}
	if err := header.Verify(output[:5], false); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Expected ErrSizeMismatch, got %v", err)
	}
}

package gamemaster

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4"
)

const (
	archiveType    = "battle_log"
	archiveVersion = "1.0"
)

type archive struct {
	Type      string     `json:"type"`
	Version   string     `json:"version"`
	Timestamp time.Time  `json:"timestamp"`
	Entries   []LogEntry `json:"entries"`
}

// WriteArchive writes entries as lz4-compressed JSON.
func WriteArchive(w io.Writer, entries []LogEntry, now time.Time) error {
	zw := lz4.NewWriter(w)
	err := json.NewEncoder(zw).Encode(archive{
		Type:      archiveType,
		Version:   archiveVersion,
		Timestamp: now.UTC(),
		Entries:   entries,
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("encoding battle archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compressing battle archive: %w", err)
	}
	return nil
}

func ReadArchive(r io.Reader) ([]LogEntry, error) {
	var a archive
	if err := json.NewDecoder(lz4.NewReader(r)).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding battle archive: %w", err)
	}
	if a.Type != archiveType {
		return nil, fmt.Errorf("invalid archive type: %q", a.Type)
	}
	if a.Version != archiveVersion {
		return nil, fmt.Errorf("unsupported archive version: %s", a.Version)
	}
	return a.Entries, nil
}

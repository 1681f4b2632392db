// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	v1 "github.com/reelmark/reelmark/internal/storage/memory/export/v1"
)

// exportJSON writes the review snapshot to a JSON file, gzipped when
// configured. Caller holds b.mu.
func (b *Backend) exportJSON() error {
	snapshot := v1.Build(&v1.ReviewData{
		Review:  b.review,
		EndedAt: b.endedAt,
		Streams: b.streams,
		Marks:   b.marks,
	})

	// Build filename from the review title and start time
	title := strings.ReplaceAll(b.review.Title, " ", "_")
	title = strings.ReplaceAll(title, ":", "_")
	if title == "" {
		title = "review"
	}
	timestamp := b.review.StartedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", title, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", title, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, snapshot); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, snapshot); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, data v1.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	return encoder.Encode(data)
}

func writeGzipJSON(path string, data v1.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	gzWriter := gzip.NewWriter(f)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	return encoder.Encode(data)
}

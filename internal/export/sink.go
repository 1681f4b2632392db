package export

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Sink is the delivery collaborator: it accepts the encoded bytes under a
// suggested filename. Platform delivery (download, share sheet, upload) is
// the sink's business, not the core's.
type Sink interface {
	Deliver(ctx context.Context, filename string, data []byte) error
}

// FileSink writes exports into a directory, optionally gzipped.
type FileSink struct {
	Dir      string
	Compress bool
}

func (s *FileSink) Deliver(ctx context.Context, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if s.Compress {
		return s.writeGzip(filepath.Join(s.Dir, filename+".gz"), data)
	}

	path := filepath.Join(s.Dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func (s *FileSink) writeGzip(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to finish export: %w", err)
	}
	return nil
}

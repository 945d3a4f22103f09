package common

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dtnitsch/drive-digest/pkg/storage"
)

// Emit prints the rendered report and, with --output-file, saves a copy.
func Emit(c *cli.Context, log *zap.Logger, data []byte) error {
	fmt.Fprintln(c.App.Writer, string(data))

	path := c.String("output-file")
	if path == "" {
		return nil
	}
	s := &storage.Storage{}
	if err := s.SaveFile(path, data); err != nil {
		return err
	}
	if stats, err := s.GetFileStats(path); err == nil {
		log.Info("report saved", zap.String("path", path), zap.Int64("bytes", stats.SizeBytes))
	}
	return nil
}

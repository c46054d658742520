// Package scanner walks the configured library roots and builds the
// technical half of each media record: path, size, modification time, and
// the duration and resolution reported by ffprobe.
package scanner

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cinebox/internal/config"
	"cinebox/internal/logging"
	"cinebox/internal/media"
	"cinebox/internal/probe"
)

// ProbeFunc inspects one file and returns its parsed ffprobe result.
type ProbeFunc func(ctx context.Context, binary, path string) (probe.Result, error)

// Scanner discovers video files under the configured roots.
type Scanner struct {
	cfg    config.Scan
	logger *slog.Logger
	probe  ProbeFunc
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithProbe overrides the ffprobe invocation. Tests use this to avoid
// spawning the real binary.
func WithProbe(fn ProbeFunc) Option {
	return func(s *Scanner) {
		if fn != nil {
			s.probe = fn
		}
	}
}

// New builds a scanner from the scan configuration.
func New(cfg config.Scan, logger *slog.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scanner{
		cfg:    cfg,
		logger: logger,
		probe:  probe.Inspect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks every configured root and returns one record per video file,
// sorted by path. Files that cannot be statted or probed are logged and
// skipped rather than aborting the walk; overlapping roots never produce
// duplicate records.
func (s *Scanner) Scan(ctx context.Context) ([]*media.Record, error) {
	seen := make(map[string]struct{})
	var records []*media.Record

	for _, root := range s.cfg.Roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rootRecords, err := s.scanRoot(ctx, root, seen)
		if err != nil {
			return nil, err
		}
		records = append(records, rootRecords...)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].FilePath < records[j].FilePath
	})
	return records, nil
}

func (s *Scanner) scanRoot(ctx context.Context, root string, seen map[string]struct{}) ([]*media.Record, error) {
	var records []*media.Record
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories and vanished entries are logged and
			// skipped; a missing root ends this root's walk quietly.
			if path == root {
				s.logger.Warn("scan root unavailable",
					logging.String("root", root),
					logging.Error(err))
				return filepath.SkipAll
			}
			s.logger.Warn("skipping unreadable path",
				logging.String("path", path),
				logging.Error(err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !s.isVideoFile(path) {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			s.logger.Warn("skipping unresolvable path",
				logging.String("path", path),
				logging.Error(err))
			return nil
		}
		if _, dup := seen[abs]; dup {
			return nil
		}
		seen[abs] = struct{}{}

		rec := s.buildRecord(ctx, abs, entry)
		if rec != nil {
			records = append(records, rec)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return records, nil
}

func (s *Scanner) buildRecord(ctx context.Context, path string, entry fs.DirEntry) *media.Record {
	info, err := entry.Info()
	if err != nil {
		s.logger.Warn("skipping unstattable file",
			logging.String("path", path),
			logging.Error(err))
		return nil
	}

	mtime := float64(info.ModTime().UnixNano()) / float64(time.Second)
	rec := &media.Record{
		FilePath:         path,
		FileName:         filepath.Base(path),
		FileSize:         info.Size(),
		FileModifiedTime: &mtime,
		Category:         media.CategoryOthers,
	}

	probeCtx := ctx
	if s.cfg.ProbeTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.ProbeTimeoutSeconds)*time.Second)
		defer cancel()
	}
	result, err := s.probe(probeCtx, s.cfg.FFprobeBinary, path)
	if err != nil {
		// Corrupt or in-flight files still get a record; enrichment works
		// from the file name alone.
		s.logger.Warn("ffprobe failed",
			logging.String("path", path),
			logging.Error(err))
		return rec
	}
	rec.DurationSeconds = result.DurationSeconds()
	rec.Resolution = result.Resolution()
	return rec
}

func (s *Scanner) isVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, candidate := range s.cfg.VideoExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

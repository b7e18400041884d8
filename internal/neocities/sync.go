package neocities

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Remote is the part of the neocities API a sync needs.
type Remote interface {
	List(ctx context.Context, dir string) ([]RemoteFile, error)
	Upload(ctx context.Context, remotePath, localPath string) error
	Delete(ctx context.Context, paths []string) error
}

var _ Remote = (*Client)(nil)

// SyncOptions tune a single sync run.
type SyncOptions struct {
	// Delete removes remote files that have no local counterpart.
	Delete bool
	// DryRun computes the worklist without touching the remote side.
	DryRun bool
}

// SyncReport summarizes a sync run.
type SyncReport struct {
	Pushed   []string
	Deleted  []string
	Orphaned []string
	Bytes    int64
	DryRun   bool
}

// Syncer mirrors a local directory onto a remote directory.
type Syncer struct {
	remote Remote
	log    *logger.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(remote Remote, log *logger.Logger) *Syncer {
	return &Syncer{remote: remote, log: log}
}

// Sync walks both sides, computes the worklist and applies it. Files are
// uploaded one at a time.
func (s *Syncer) Sync(ctx context.Context, localDir, remoteDir string, opts SyncOptions) (*SyncReport, error) {
	idx := NewSyncIndex(localDir, remoteDir)

	if err := s.walkRemote(ctx, idx, idx.RemoteRoot, map[string]bool{}); err != nil {
		return nil, err
	}
	sizes, err := walkLocal(idx, localDir)
	if err != nil {
		return nil, err
	}

	work := idx.Worklist()
	s.log.Info("sync %s -> /%s: %d files indexed, %d to push, %d remote only",
		localDir, idx.RemoteRoot, idx.Len(), len(work.Push), len(work.Delete))

	report := &SyncReport{DryRun: opts.DryRun}
	for _, local := range work.Push {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		remote := idx.LocalToRemote(local)
		size := sizes[local]
		if opts.DryRun {
			s.log.Info("would upload %s (%s)", remote, humanize.Bytes(uint64(size)))
		} else {
			s.log.Info("uploading %s (%s)", remote, humanize.Bytes(uint64(size)))
			if err := s.remote.Upload(ctx, remote, local); err != nil {
				return report, err
			}
		}
		report.Pushed = append(report.Pushed, remote)
		report.Bytes += size
	}

	if len(work.Delete) == 0 {
		return report, nil
	}
	if !opts.Delete {
		for _, p := range work.Delete {
			s.log.Warn("remote only: %s (pass --delete to remove)", p)
		}
		report.Orphaned = work.Delete
		return report, nil
	}
	if opts.DryRun {
		for _, p := range work.Delete {
			s.log.Info("would delete %s", p)
		}
	} else {
		s.log.Info("deleting %d remote files", len(work.Delete))
		if err := s.remote.Delete(ctx, work.Delete); err != nil {
			return report, err
		}
	}
	report.Deleted = work.Delete
	return report, nil
}

func (s *Syncer) walkRemote(ctx context.Context, idx *SyncIndex, dir string, seen map[string]bool) error {
	if seen[dir] {
		return nil
	}
	seen[dir] = true

	files, err := s.remote.List(ctx, dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		p := strings.TrimPrefix(f.Path, "/")
		if dir != "" && p != dir && !strings.HasPrefix(p, dir+"/") {
			continue
		}
		if f.IsDirectory {
			if err := s.walkRemote(ctx, idx, p, seen); err != nil {
				return err
			}
			continue
		}
		if hidden(path.Base(p)) {
			continue
		}
		idx.IndexRemote(FileInfo{Path: p, ModTime: f.ModTime(), Size: f.Size})
	}
	return nil
}

// walkLocal indexes every regular file under root. Dotfiles and dot
// directories are skipped. It returns the size of each indexed file.
func walkLocal(idx *SyncIndex, root string) (map[string]int64, error) {
	sizes := make(map[string]int64)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != root && hidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		idx.IndexLocal(FileInfo{Path: p, ModTime: info.ModTime(), Size: info.Size()})
		sizes[p] = info.Size()
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("local directory %s does not exist", root)
		}
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return sizes, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

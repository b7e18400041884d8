// Package neocities publishes a built site to a neocities.org account.
//
// A sync indexes the files on both sides by their path relative to the
// local and remote roots, then pushes every local file that is missing
// remotely or newer than its remote copy. Remote files with no local
// counterpart are deleted only when asked to.
package neocities

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one file on either side of a sync.
type FileInfo struct {
	Path    string
	ModTime time.Time
	Size    int64
}

type indexEntry struct {
	local  *FileInfo
	remote *FileInfo
}

// SyncIndex pairs local and remote files by relative path.
type SyncIndex struct {
	LocalRoot  string
	RemoteRoot string
	entries    map[string]*indexEntry
}

// NewSyncIndex creates an empty index for the given roots.
func NewSyncIndex(localRoot, remoteRoot string) *SyncIndex {
	return &SyncIndex{
		LocalRoot:  localRoot,
		RemoteRoot: strings.Trim(remoteRoot, "/"),
		entries:    make(map[string]*indexEntry),
	}
}

// Worklist is what a sync has to do. Paths in Push are local paths;
// paths in Delete are remote paths.
type Worklist struct {
	Push   []string
	Delete []string
}

// Empty reports whether there is nothing to do.
func (w Worklist) Empty() bool {
	return len(w.Push) == 0 && len(w.Delete) == 0
}

// IndexRemote records a remote file. Call it once per remote file.
func (s *SyncIndex) IndexRemote(f FileInfo) {
	key := s.remoteKey(f.Path)
	s.entry(key).remote = &f
}

// IndexLocal records a local file. Call it once per local file.
func (s *SyncIndex) IndexLocal(f FileInfo) {
	key := s.localKey(f.Path)
	s.entry(key).local = &f
}

// Len returns the number of distinct relative paths indexed.
func (s *SyncIndex) Len() int {
	return len(s.entries)
}

// Worklist classifies every indexed path: local only is pushed, remote
// only is deleted, and a file on both sides is pushed when the local copy
// is newer. Both lists are sorted.
func (s *SyncIndex) Worklist() Worklist {
	var w Worklist
	for _, e := range s.entries {
		switch {
		case e.local == nil:
			w.Delete = append(w.Delete, e.remote.Path)
		case e.remote == nil:
			w.Push = append(w.Push, e.local.Path)
		case e.local.ModTime.After(e.remote.ModTime):
			w.Push = append(w.Push, e.local.Path)
		}
	}
	sort.Strings(w.Push)
	sort.Strings(w.Delete)
	return w
}

// LocalToRemote maps a local path under LocalRoot to its remote path.
func (s *SyncIndex) LocalToRemote(localPath string) string {
	return path.Join(s.RemoteRoot, s.localKey(localPath))
}

func (s *SyncIndex) entry(key string) *indexEntry {
	e, ok := s.entries[key]
	if !ok {
		e = &indexEntry{}
		s.entries[key] = e
	}
	return e
}

func (s *SyncIndex) localKey(p string) string {
	rel, err := filepath.Rel(s.LocalRoot, p)
	if err != nil {
		rel = p
	}
	return filepath.ToSlash(rel)
}

func (s *SyncIndex) remoteKey(p string) string {
	p = strings.TrimPrefix(p, "/")
	if s.RemoteRoot == "" {
		return p
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, s.RemoteRoot), "/")
}

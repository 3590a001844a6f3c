// Package hostsfile owns the managed block inside a shared hosts-format
// file. Everything outside the block is preserved byte for byte; the block
// itself is rewritten wholesale on every update via an atomic rename, so a
// concurrent reader never observes a partial write.
package hostsfile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/auto-dns/docker-hoster/internal/domain"
	"github.com/auto-dns/docker-hoster/internal/util"
	"github.com/rs/zerolog"
)

const (
	BeginMarker = "# Begin Docker Hoster"
	EndMarker   = "# End Docker Hoster"
)

// Store serializes all access to the hosts file behind one mutex. The lock
// guards the whole read-modify-write sequence, not individual file calls.
type Store struct {
	mu     sync.Mutex
	path   string
	logger zerolog.Logger

	// rename is swapped out in tests to simulate failures at the commit point.
	rename func(oldpath, newpath string) error
}

func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
		rename: os.Rename,
	}
}

// ReadUnmanagedLines returns every line of the current file outside the
// managed block. A missing file is a normal first-run condition: it yields no
// lines and a warning, not an error.
func (s *Store) ReadUnmanagedLines() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readUnmanagedLines()
}

func (s *Store) readUnmanagedLines() ([]string, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Str("path", s.path).Msg("Hosts file does not exist yet")
			return nil, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("permission denied reading hosts file %s: %w", s.path, err)
		}
		return nil, fmt.Errorf("opening hosts file %s: %w", s.path, err)
	}
	defer file.Close()

	var lines []string
	insideBlock := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if line == BeginMarker {
			insideBlock = true
			// The blank separator written before the block belongs to it.
			if n := len(lines); n > 0 && lines[n-1] == "" {
				lines = lines[:n-1]
			}
			continue
		}
		if line == EndMarker {
			insideBlock = false
			continue
		}
		if insideBlock {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hosts file %s: %w", s.path, err)
	}

	return lines, nil
}

// Replace rewrites the managed block to contain exactly the given entries,
// preserving all unmanaged lines. With no entries the block is omitted
// entirely. The write is all-or-nothing: content goes to a temporary file in
// the same directory, which is renamed over the target; on any failure the
// temporary file is removed and the original file is left untouched.
func (s *Store) Replace(entries []domain.HostEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.readUnmanagedLines()
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		lines = append(lines, "", BeginMarker)
		lines = append(lines, util.Map(entries, domain.HostEntry.HostsLine)...)
		lines = append(lines, EndMarker)
	}

	if err := s.writeAtomically(lines); err != nil {
		return err
	}

	s.logger.Debug().Int("entries", len(entries)).Str("path", s.path).Msg("Hosts file written")
	return nil
}

// Strip removes the managed block, restoring the file to its unmanaged
// content. Used at shutdown.
func (s *Store) Strip() error {
	if err := s.Replace(nil); err != nil {
		return err
	}
	s.logger.Info().Str("path", s.path).Msg("Removed managed hosts entries")
	return nil
}

func (s *Store) writeAtomically(lines []string) (err error) {
	// Preserve the permissions of an existing file.
	var perm os.FileMode = 0o644
	if info, statErr := os.Stat(s.path); statErr == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".hosts-*.tmp")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied creating temp file in %s: ensure the directory is writable by this process: %w", dir, err)
		}
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	writer := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err = fmt.Fprintln(writer, line); err != nil {
			return fmt.Errorf("writing temp hosts file: %w", err)
		}
	}
	if err = writer.Flush(); err != nil {
		return fmt.Errorf("flushing temp hosts file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp hosts file: %w", err)
	}
	if err = os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting temp hosts file permissions: %w", err)
	}

	if err = s.rename(tmpPath, s.path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return fmt.Errorf("permission denied replacing hosts file %s: ensure the file and its directory are writable by this process: %w", s.path, err)
		}
		return fmt.Errorf("replacing hosts file %s: %w", s.path, err)
	}
	return nil
}

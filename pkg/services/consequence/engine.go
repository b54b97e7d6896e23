package consequence

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fadedpez/stakejack/internal/logging"
)

// oversampleFactor controls how many candidate paths are gathered before the
// random pick, to keep the sample varied across the directory tree.
const oversampleFactor = 10

// Failure records one path that could not be deleted.
type Failure struct {
	Path string
	Err  string
}

// Report is the per-pass breakdown shown to the player: how many deletions
// were attempted, how many succeeded, and how many files fought back.
type Report struct {
	Attempted int
	Deleted   int
	Protected int
	Simulated bool
	Failures  []Failure
}

// Engine maps round outcomes to file-system side effects. Unless armed, it
// runs the full select/attempt/report cycle without removing anything.
type Engine struct {
	logger *logging.Logger
	armed  bool
	rand   *rand.Rand
}

// NewEngine creates a consequence engine. armed=false means simulate only.
func NewEngine(logger *logging.Logger, armed bool) *Engine {
	return &Engine{
		logger: logger,
		armed:  armed,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Armed reports whether deletions are real.
func (e *Engine) Armed() bool {
	return e.armed
}

// CountFiles counts regular files directly inside dir (not subdirectories).
// This is the Hard-mode starting balance.
func (e *Engine) CountFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("error reading stake folder: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			count++
		}
	}
	return count, nil
}

// SelectCandidates walks dir recursively and randomly picks up to n file
// paths to put at stake. It gathers up to oversampleFactor×n paths before
// the pick; unreadable subtrees are skipped.
func (e *Engine) SelectCandidates(dir string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	sampleCap := n * oversampleFactor
	pool := make([]string, 0, sampleCap)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		pool = append(pool, path)
		if len(pool) >= sampleCap {
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning stake folder: %w", err)
	}

	e.rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > n {
		pool = pool[:n]
	}

	e.logger.Info("selected files at stake", "folder", dir, "count", len(pool))
	return pool, nil
}

// DeleteFiles attempts to delete each path and returns the breakdown.
// Failures are logged and counted, never fatal.
func (e *Engine) DeleteFiles(paths []string) *Report {
	report := &Report{Simulated: !e.armed}

	for _, path := range paths {
		report.Attempted++

		if !e.armed {
			if _, err := os.Stat(path); err != nil {
				report.Protected++
				report.Failures = append(report.Failures, Failure{Path: path, Err: err.Error()})
				e.logger.Warn("simulated delete failed", "file", path, "error", err)
				continue
			}
			report.Deleted++
			e.logger.Info("simulated delete", "file", path)
			continue
		}

		if err := e.deleteOne(path); err != nil {
			report.Protected++
			report.Failures = append(report.Failures, Failure{Path: path, Err: err.Error()})
			e.logger.Warn("file survived deletion", "file", path, "error", err)
			continue
		}
		report.Deleted++
		e.logger.Info("deleted file", "file", path)
	}

	e.logger.Info("deletion pass complete",
		"attempted", report.Attempted,
		"deleted", report.Deleted,
		"protected", report.Protected,
		"simulated", report.Simulated,
	)
	return report
}

// DeleteUpTo enumerates regular files directly inside dir and deletes up to
// n of them. Used by the Normal-mode zero-balance consequence.
func (e *Engine) DeleteUpTo(dir string, n int) *Report {
	entries, err := os.ReadDir(dir)
	if err != nil {
		e.logger.Error("cannot enumerate stake folder", "folder", dir, "error", err)
		return &Report{Simulated: !e.armed}
	}

	paths := make([]string, 0, n)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
		if len(paths) >= n {
			break
		}
	}

	return e.DeleteFiles(paths)
}

// deleteOne runs the attempt ladder: plain remove, then relax permissions
// and retry, then the OS forced-delete command.
func (e *Engine) deleteOne(path string) error {
	if err := os.Remove(path); err == nil {
		return nil
	}

	e.logger.Warn("direct delete failed, relaxing permissions", "file", path)
	if chmodErr := os.Chmod(path, 0666); chmodErr == nil {
		if err := os.Remove(path); err == nil {
			return nil
		}
	}

	e.logger.Warn("retry failed, forcing delete", "file", path)
	if err := forcedDelete(path); err != nil {
		return fmt.Errorf("forced delete failed: %w", err)
	}

	// The forced command reports success even for protected files on some
	// platforms; trust the filesystem instead.
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file still present after forced delete")
	}
	return nil
}

func forcedDelete(path string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", "del", "/F", "/Q", path)
	} else {
		cmd = exec.Command("rm", "-f", path)
	}
	return cmd.Run()
}

// Package packager builds the deterministic source-snapshot archive a
// release ships alongside its tag and changelog entry.
package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/corvidlabs/arm/internal/logger"
)

// DefaultExcludes are pruned from every archive regardless of project
// content: VCS metadata, this tool's own state directory, prior build
// output, Python virtualenvs and bytecode left over from the reference
// tooling this package supersedes.
var DefaultExcludes = []string{
	".git/*",
	".arm/*",
	"dist/*",
	".venv/*",
	"__pycache__/*",
	"*.pyc",
}

// Spec describes a single archive build.
type Spec struct {
	ProjectName  string
	Version      string
	RepoDir      string
	DistDir      string
	ExcludeGlobs []string // defaults to DefaultExcludes when nil
}

func (s Spec) excludes() []string {
	if s.ExcludeGlobs == nil {
		return DefaultExcludes
	}
	return s.ExcludeGlobs
}

// isExcluded uses fnmatch-style "*" rather than filepath.Match: "*"
// matches across "/" boundaries, so a pattern like "*.pyc" excludes
// bytecode at any depth, not just the repo root. Patterns are anchored
// at the start of the repo-relative path, so "__pycache__/*" excludes
// only a top-level __pycache__ directory. Only "*" and "?" are
// wildcards; "[" is matched literally.
func isExcluded(relPosix string, globs []string) bool {
	for _, g := range globs {
		if globToRegexp(g).MatchString(relPosix) || globToRegexp(g).MatchString(relPosix+"/") {
			return true
		}
	}
	return false
}

func globToRegexp(glob string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("^")
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.MustCompile(b.String())
}

// BuildZip writes <dist_dir>/<project_name>-<version>.zip containing
// every file under RepoDir not matched by the exclude globs, deflate
// compressed, with forward-slash archive paths regardless of host OS.
// An existing archive at the destination path is removed first so
// repeated invocations never merge stale entries into a new build.
func BuildZip(spec Spec) (string, error) {
	if err := os.MkdirAll(spec.DistDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create dist directory: %w (verify you have write permissions for '%s')", err, spec.DistDir)
	}

	out := filepath.Join(spec.DistDir, fmt.Sprintf("%s-%s.zip", spec.ProjectName, spec.Version))
	if _, err := os.Stat(out); err == nil {
		if err := os.Remove(out); err != nil {
			return "", fmt.Errorf("failed to remove existing archive: %w (verify you have write permissions for '%s')", err, out)
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w (verify you have write permissions for '%s')", err, out)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	globs := spec.excludes()

	walkErr := filepath.Walk(spec.RepoDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == spec.RepoDir {
			return nil
		}
		rel, err := filepath.Rel(spec.RepoDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if isExcluded(rel, globs) {
				logger.Packager.Debug().Str("dir", rel).Msg("pruning excluded directory")
				return filepath.SkipDir
			}
			return nil
		}
		if isExcluded(rel, globs) {
			return nil
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   rel,
			Method: zip.Deflate,
		})
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(w, src); err != nil {
			return err
		}
		return nil
	})
	if walkErr != nil {
		zw.Close()
		return "", fmt.Errorf("failed to build archive: %w (check file permissions under '%s')", walkErr, spec.RepoDir)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}

	logger.Packager.Info().Str("path", out).Msg("built release archive")
	return out, nil
}

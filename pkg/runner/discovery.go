package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Discover finds Markdown files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
// Hidden files and directories are skipped unless named explicitly.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		ctx:        ctx,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		excludes:   opts.ExcludeGlobs,
		follow:     opts.FollowSymlinks,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if d.wants(absPath) {
				d.add(absPath)
			}
			continue
		}

		if err := d.walk(absPath); err != nil {
			return nil, err
		}
	}

	sort.Strings(d.files)

	return d.files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type discoverer struct {
	ctx        context.Context
	workDir    string
	extensions []string
	excludes   []string
	follow     bool

	seen  map[string]struct{}
	files []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// walk adds every matching file under root.
func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || d.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(path)
		}

		if d.wants(path) {
			d.add(path)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}

	return nil
}

// symlink handles a link found while walking. Broken links and links to
// directories (unless following is enabled) are skipped.
func (d *discoverer) symlink(path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // Broken symlinks are skipped.
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Unreadable targets are skipped.
	}

	if !info.IsDir() {
		if d.wants(path) {
			d.add(path)
		}
		return nil
	}

	if !d.follow {
		return nil
	}

	// WalkDir uses Lstat on its root, so walk the target itself.
	return d.walk(target)
}

// wants reports whether a file has a Markdown extension and is not excluded.
func (d *discoverer) wants(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range d.extensions {
		if strings.ToLower(e) == ext {
			return !d.excluded(path)
		}
	}
	return false
}

func (d *discoverer) excluded(path string) bool {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		relPath = path
	}
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range d.excludes {
		if matchGlob(relPath, filepath.ToSlash(pattern)) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path against a glob.
// A pattern without a slash also matches the base name. "**" matches any
// number of path segments, including none.
func matchGlob(name, pattern string) bool {
	if !strings.Contains(pattern, "**") {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			ok, _ := path.Match(pattern, path.Base(name))
			return ok
		}
		return false
	}

	return matchSegments(strings.Split(name, "/"), strings.Split(pattern, "/"))
}

func matchSegments(names, patterns []string) bool {
	for len(patterns) > 0 {
		if patterns[0] == "**" {
			rest := patterns[1:]
			for skip := 0; skip <= len(names); skip++ {
				if matchSegments(names[skip:], rest) {
					return true
				}
			}
			return false
		}

		if len(names) == 0 {
			return false
		}
		if ok, _ := path.Match(patterns[0], names[0]); !ok {
			return false
		}
		names, patterns = names[1:], patterns[1:]
	}

	return len(names) == 0
}

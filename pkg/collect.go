package dupscan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// statIdentity returns the (device, inode) identity of a path. When
// follow is true symlinks are resolved to their target first.
func statIdentity(path string, follow bool) (fileIdentity, error) {
	var st unix.Stat_t
	var err error
	if follow {
		err = unix.Stat(path, &st)
	} else {
		err = unix.Lstat(path, &st)
	}
	if err != nil {
		return fileIdentity{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return fileIdentity{Dev: uint64(st.Dev), Ino: uint64(st.Ino)}, nil
}

// normalizePath cleans a path and resolves it against the working directory
func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return filepath.Clean(absPath), nil
}

// deduplicatePaths sorts paths and removes any that are inside others.
// Example: ["/home/user/docs", "/home/user/docs/notes", "/home/user/photos"]
//
//	-> ["/home/user/docs", "/home/user/photos"]
//
// Files under a nested root would otherwise be discovered twice, which
// would let one physical file masquerade as its own duplicate.
func deduplicatePaths(paths []string) []string {
	if len(paths) <= 1 {
		return paths
	}

	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var deduplicated []string
	for _, path := range sorted {
		redundant := false
		for _, kept := range deduplicated {
			if path == kept || isPathUnder(path, kept) {
				redundant = true
				break
			}
		}
		if !redundant {
			deduplicated = append(deduplicated, path)
		}
	}

	return deduplicated
}

// isPathUnder checks if childPath is under parentPath
func isPathUnder(childPath, parentPath string) bool {
	childPath = filepath.Clean(childPath)
	parentPath = filepath.Clean(parentPath)

	if childPath == parentPath {
		return false
	}

	parentWithSep := parentPath + string(filepath.Separator)
	return strings.HasPrefix(childPath, parentWithSep)
}

// insertSorted merges newPaths into an existing sorted queue,
// preserving global lexicographic scan order
func insertSorted(existing []string, newPaths []string) []string {
	if len(newPaths) == 0 {
		return existing
	}
	sort.Strings(newPaths)
	if len(existing) == 0 {
		return newPaths
	}

	result := make([]string, 0, len(existing)+len(newPaths))
	i, j := 0, 0
	for i < len(existing) && j < len(newPaths) {
		if existing[i] <= newPaths[j] {
			result = append(result, existing[i])
			i++
		} else {
			result = append(result, newPaths[j])
			j++
		}
	}
	result = append(result, existing[i:]...)
	result = append(result, newPaths[j:]...)

	return result
}

// expandDirectories enumerates the regular files reachable from dirs
// and adds them to set with the given origin. With recursive set,
// whole directory trees are walked; otherwise only each directory's
// immediate entries are examined.
//
// A directory that does not exist, is not a directory, or cannot be
// listed is a fatal error: duplicate detection needs a complete
// candidate set, and a partial one would silently under-report.
// Problems with individual files found during the walk are recorded
// as warnings instead.
//
// A root that is itself a symlink is resolved and its target listed.
// Directory symlinks discovered during the walk are never followed, so
// self-referential link cycles terminate. File symlinks follow the
// checker's symlink mode.
func (c *Checker) expandDirectories(dirs []string, recursive bool, origin string, set *candidateSet, results *DupResults) error {
	defer VerboseEnter()()

	var roots []string
	for _, dir := range dirs {
		normalized, err := normalizePath(dir)
		if err != nil {
			return NewDupError(dir, err)
		}

		info, err := os.Stat(normalized)
		if err != nil {
			return NewDupError(dir, err)
		}
		if !info.IsDir() {
			return NewDupError(dir, fmt.Errorf("not a directory"))
		}

		// A root given as a symlink refers to the directory it names;
		// resolve it so the walk lists that directory. The no-follow
		// rule applies only to symlinks discovered during the walk.
		resolved, err := filepath.EvalSymlinks(normalized)
		if err != nil {
			return NewDupError(dir, err)
		}

		roots = append(roots, resolved)
	}

	for _, root := range deduplicatePaths(roots) {
		if IsDebugEnabled("scan") {
			VerboseLog(3, "expandDirectories: scanning root %s (recursive=%t)", root, recursive)
		}
		if err := c.scanRoot(root, recursive, origin, set, results); err != nil {
			return err
		}
	}

	return nil
}

// scanRoot walks one directory root in sorted order, streaming regular
// files into the candidate set
func (c *Checker) scanRoot(root string, recursive bool, origin string, set *candidateSet, results *DupResults) error {
	// Sorted queue keeps discovery order lexicographic across the
	// whole tree, so repeat runs on an unchanged filesystem produce
	// identical output.
	pathQueue := []string{root}

	for len(pathQueue) > 0 {
		currentPath := pathQueue[0]
		pathQueue = pathQueue[1:]

		info, err := os.Lstat(currentPath)
		if err != nil {
			if currentPath == root {
				return NewDupError(currentPath, err)
			}
			// Entry vanished between listing and stat.
			results.warn(currentPath, err)
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			c.collectSymlink(currentPath, origin, set, results)
			continue
		}

		if info.IsDir() {
			if !recursive && currentPath != root {
				continue
			}

			entries, err := os.ReadDir(currentPath)
			if err != nil {
				return NewDupError(currentPath, err)
			}

			newPaths := make([]string, 0, len(entries))
			for _, entry := range entries {
				newPaths = append(newPaths, filepath.Join(currentPath, entry.Name()))
			}
			pathQueue = insertSorted(pathQueue, newPaths)
			continue
		}

		if !info.Mode().IsRegular() {
			// Sockets, fifos, devices have no meaningful content hash.
			continue
		}

		identity, err := statIdentity(currentPath, false)
		if err != nil {
			results.warn(currentPath, err)
			continue
		}

		if IsDebugEnabled("scan") {
			VerboseLog(3, "scanRoot: found file %s (%d bytes)", currentPath, info.Size())
		}
		set.Add(candidateFile{Path: currentPath, Size: info.Size(), Identity: identity}, origin)
	}

	return nil
}

// collectSymlink applies the file-symlink policy to a symlink found
// during directory expansion. Symlinks whose target is a directory are
// always skipped; following them could recurse forever through a
// self-referential cycle.
func (c *Checker) collectSymlink(path string, origin string, set *candidateSet, results *DupResults) {
	if c.symlinkMode == SymlinkSkip {
		return
	}

	targetInfo, err := os.Stat(path)
	if err != nil {
		// Broken symlink; the file it names cannot be hashed.
		results.warn(path, err)
		return
	}

	if targetInfo.IsDir() {
		if IsDebugEnabled("scan") {
			VerboseLog(3, "collectSymlink: not following directory symlink %s", path)
		}
		return
	}

	if !targetInfo.Mode().IsRegular() {
		return
	}

	// Identity of the target, not the link: a symlink next to its
	// target must count as one file, not a duplicate pair.
	identity, err := statIdentity(path, true)
	if err != nil {
		results.warn(path, err)
		return
	}

	set.Add(candidateFile{Path: path, Size: targetInfo.Size(), Identity: identity}, origin)
}

// addTargetFile adds one explicitly given file to the candidate set as
// a target. Paths that are not regular files are recorded as warnings
// and excluded, matching the recoverable error class: the remaining
// targets are still checked.
func (c *Checker) addTargetFile(path string, set *candidateSet, results *DupResults) bool {
	normalized, err := normalizePath(path)
	if err != nil {
		results.warn(path, err)
		return false
	}

	info, err := os.Stat(normalized)
	if err != nil {
		results.warn(path, err)
		return false
	}
	if !info.Mode().IsRegular() {
		results.warn(path, fmt.Errorf("not a file"))
		return false
	}

	identity, err := statIdentity(normalized, true)
	if err != nil {
		results.warn(path, err)
		return false
	}

	set.Add(candidateFile{Path: normalized, Size: info.Size(), Identity: identity}, originTarget)
	return true
}

package dupscan

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DupGroup represents a group of files with identical content
type DupGroup struct {
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// DupResults holds the outcome of one duplicate check: the duplicate
// groups found, plus warnings for files that were enumerated but could
// not be checked. A run with warnings still succeeded; the caller
// should surface them so an omission is never silent.
type DupResults struct {
	Groups   []DupGroup  `json:"groups"`
	Warnings []*DupError `json:"-"`
}

func (r *DupResults) warn(path string, err error) {
	r.Warnings = append(r.Warnings, NewDupError(path, err))
	VerboseLog(1, "warning: %s: %v", path, err)
}

// FileCount returns the total number of paths across all groups
func (r *DupResults) FileCount() int {
	total := 0
	for _, group := range r.Groups {
		total += group.Count
	}
	return total
}

// HasWarnings reports whether any files could not be checked
func (r *DupResults) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Checker is a configured duplicate-detection engine. The zero value
// is not usable; obtain one from NewChecker or NewCheckerWithConfig.
type Checker struct {
	config      *Config
	algorithm   *HashAlgorithm
	hashWorkers int
	hashBuffer  int
	symlinkMode string
	progress    func(done, total int)
}

// NewChecker creates a Checker from the user config file plus any
// flag overrides ("hash", "hash_workers", "hash_buffer", "symlink",
// "v", "debug").
func NewChecker(flags map[string]string) (*Checker, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}

	config, err := LoadConfig(configDir)
	if err != nil {
		return nil, err
	}

	return NewCheckerWithConfig(config, flags)
}

// NewCheckerWithConfig creates a Checker from an already-loaded
// configuration plus flag overrides
func NewCheckerWithConfig(config *Config, flags map[string]string) (*Checker, error) {
	c := &Checker{config: config}

	hashConfig := config.GetHashConfig()
	performanceConfig := config.GetPerformanceConfig()
	symlinkConfig := config.GetSymlinkConfig()
	verboseConfig := config.GetVerboseConfig()

	algorithmName := hashConfig.Default
	if name, exists := flags["hash"]; exists {
		algorithmName = name
	}
	algorithm, err := GetHashAlgorithm(algorithmName)
	if err != nil {
		return nil, err
	}
	c.algorithm = algorithm

	c.hashWorkers = performanceConfig.HashWorkers
	if workersStr, exists := flags["hash_workers"]; exists {
		workers, err := strconv.Atoi(workersStr)
		if err != nil {
			return nil, fmt.Errorf("invalid hash workers value '%s': %w", workersStr, err)
		}
		c.hashWorkers = workers
	}
	if err := ValidateHashWorkers(c.hashWorkers); err != nil {
		return nil, err
	}

	bufferStr := performanceConfig.HashBuffer
	if override, exists := flags["hash_buffer"]; exists {
		bufferStr = override
	}
	bufferSize, err := ParseHumanSize(bufferStr)
	if err != nil {
		return nil, fmt.Errorf("invalid hash buffer size '%s': %w", bufferStr, err)
	}
	c.hashBuffer = bufferSize

	c.symlinkMode = symlinkConfig.Mode
	if mode, exists := flags["symlink"]; exists {
		c.symlinkMode = mode
	}
	if err := ValidateSymlinkMode(c.symlinkMode); err != nil {
		return nil, err
	}

	if levelStr, exists := flags["v"]; exists {
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			return nil, fmt.Errorf("invalid verbose level '%s': %w", levelStr, err)
		}
		SetVerboseLevel(level)
	} else if verboseConfig.Level > 0 {
		SetVerboseLevel(verboseConfig.Level)
	}

	if debug, exists := flags["debug"]; exists {
		SetDebugFlags(debug)
	} else if verboseConfig.Debug != "" {
		SetDebugFlags(verboseConfig.Debug)
	}

	return c, nil
}

// Algorithm returns the digest algorithm this checker hashes with
func (c *Checker) Algorithm() *HashAlgorithm {
	return c.algorithm
}

// SetProgress installs a callback invoked after each file is hashed.
// The core never prints; progress display belongs to the caller.
func (c *Checker) SetProgress(fn func(done, total int)) {
	c.progress = fn
}

// Of checks for duplicates of files within dirs, or within each
// file's parent directory when dirs is empty
func (c *Checker) Of(files, dirs []string) (*DupResults, error) {
	var mode Mode
	var err error
	if len(dirs) == 0 {
		mode, err = DuplicatesOf(files)
	} else {
		mode, err = DuplicatesOfWithin(files, dirs)
	}
	if err != nil {
		return nil, err
	}
	return c.FindDuplicates(mode)
}

// Within checks for any duplicate files within dirs
func (c *Checker) Within(dirs []string) (*DupResults, error) {
	mode, err := DuplicatesWithin(dirs)
	if err != nil {
		return nil, err
	}
	return c.FindDuplicates(mode)
}

// Among checks an explicit list of files against each other
func (c *Checker) Among(files []string) (*DupResults, error) {
	mode, err := DuplicatesAmong(files)
	if err != nil {
		return nil, err
	}
	return c.FindDuplicates(mode)
}

// FindDuplicates runs one duplicate search. It returns a fatal error
// when a given directory cannot be enumerated (a partial candidate set
// would under-report duplicates); failures on individual files are
// accumulated as warnings in the returned results instead.
func (c *Checker) FindDuplicates(mode Mode) (*DupResults, error) {
	defer VerboseEnter()()

	results := &DupResults{}
	set := newCandidateSet()

	if err := c.buildCandidateSet(mode, set, results); err != nil {
		return nil, err
	}

	if set.Len() == 0 {
		if results.HasWarnings() {
			// Every input was rejected; the per-path causes are the
			// only explanation the caller will get, so carry them.
			causes := make([]string, 0, len(results.Warnings))
			for _, warning := range results.Warnings {
				causes = append(causes, warning.Error())
			}
			return nil, newInputError("candidate set is empty: %s", strings.Join(causes, "; "))
		}
		return nil, newInputError("candidate set is empty: nothing to check")
	}
	VerboseLog(2, "candidate set has %d files", set.Len())

	jobs := c.eligibleJobs(mode, set)
	VerboseLog(2, "hashing %d of %d candidates after size pre-filter", len(jobs), set.Len())

	groups, targetHit := c.hashCandidates(jobs, results)

	for digest, paths := range groups {
		if len(paths) < 2 {
			continue
		}
		if mode.usesTargets() && !targetHit[digest] {
			continue
		}
		sort.Strings(paths)
		results.Groups = append(results.Groups, DupGroup{
			Hash:  digest,
			Files: paths,
			Count: len(paths),
		})
	}

	// Map iteration order is not a guarantee; an explicit sort makes
	// repeat runs report groups identically.
	sort.Slice(results.Groups, func(i, j int) bool {
		return results.Groups[i].Files[0] < results.Groups[j].Files[0]
	})

	return results, nil
}

// buildCandidateSet resolves a mode into the concrete set of files to
// examine
func (c *Checker) buildCandidateSet(mode Mode, set *candidateSet, results *DupResults) error {
	switch mode.kind {
	case modeOfWithin:
		for _, file := range mode.files {
			c.addTargetFile(file, set, results)
		}
		return c.expandDirectories(mode.dirs, true, originScan, set, results)

	case modeOfOnly:
		// Each valid target contributes its parent directory,
		// searched non-recursively: "within the parent directory"
		// means siblings, not the whole tree below it.
		var parents []string
		seen := map[string]bool{}
		for _, file := range mode.files {
			if !c.addTargetFile(file, set, results) {
				continue
			}
			normalized, err := normalizePath(file)
			if err != nil {
				continue
			}
			parent := filepath.Dir(normalized)
			if !seen[parent] {
				seen[parent] = true
				parents = append(parents, parent)
			}
		}
		if len(parents) == 0 {
			return nil
		}
		return c.expandDirectories(parents, false, originScan, set, results)

	case modeWithinOnly:
		return c.expandDirectories(mode.dirs, true, originScan, set, results)

	case modeAmong:
		for _, file := range mode.files {
			c.addTargetFile(file, set, results)
		}
		return nil

	default:
		return newInputError("unknown mode")
	}
}

// hashJob is one file queued for digest computation
type hashJob struct {
	path   string
	origin string
	size   int64
}

// eligibleJobs applies the size pre-filter: a file whose size is
// unique within the candidate set cannot have a duplicate, so hashing
// it is wasted work. In target modes, only sizes matching some target
// file can ever produce a reportable group.
func (c *Checker) eligibleJobs(mode Mode, set *candidateSet) []hashJob {
	sizeCounts := map[int64]int{}
	targetSizes := map[int64]bool{}
	set.ForEach(func(cf *candidateFile, origin string) bool {
		sizeCounts[cf.Size]++
		if origin == originTarget {
			targetSizes[cf.Size] = true
		}
		return true
	})

	var jobs []hashJob
	set.ForEach(func(cf *candidateFile, origin string) bool {
		if sizeCounts[cf.Size] < 2 {
			return true
		}
		if mode.usesTargets() && !targetSizes[cf.Size] {
			return true
		}
		jobs = append(jobs, hashJob{path: cf.Path, origin: origin, size: cf.Size})
		return true
	})

	return jobs
}

// hashCandidates digests all jobs on a bounded worker pool and folds
// the results into a digest-to-paths mapping. The mapping is mutated
// only by this goroutine; workers communicate over channels.
func (c *Checker) hashCandidates(jobs []hashJob, results *DupResults) (map[string][]string, map[string]bool) {
	type hashOutcome struct {
		path      string
		origin    string
		hexDigest string
		err       error
	}

	jobChan := make(chan hashJob, 100)
	outcomeChan := make(chan hashOutcome)
	var wg sync.WaitGroup

	// The digest of zero bytes is fixed by the algorithm, so empty
	// files never need to be opened.
	emptyDigest := HashStringToHexString("", c.algorithm)

	for i := 0; i < c.hashWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				if job.size == 0 {
					outcomeChan <- hashOutcome{
						path:      job.path,
						origin:    job.origin,
						hexDigest: emptyDigest,
					}
					continue
				}
				if IsDebugEnabled("hash") {
					VerboseLog(3, "hashCandidates: hashing %s", job.path)
				}
				hexDigest, err := HashFileToHexString(job.path, c.algorithm, c.hashBuffer)
				outcomeChan <- hashOutcome{
					path:      job.path,
					origin:    job.origin,
					hexDigest: hexDigest,
					err:       err,
				}
			}
		}()
	}

	go func() {
		for _, job := range jobs {
			jobChan <- job
		}
		close(jobChan)
		wg.Wait()
		close(outcomeChan)
	}()

	groups := map[string][]string{}
	targetHit := map[string]bool{}
	done := 0

	for outcome := range outcomeChan {
		done++
		if c.progress != nil {
			c.progress(done, len(jobs))
		}

		if outcome.err != nil {
			// HashFileToHexString wraps with the path already; keep
			// the warning's cause bare so it renders once.
			cause := errors.Unwrap(outcome.err)
			if cause == nil {
				cause = outcome.err
			}
			results.warn(outcome.path, cause)
			continue
		}

		groups[outcome.hexDigest] = append(groups[outcome.hexDigest], outcome.path)
		if outcome.origin == originTarget {
			targetHit[outcome.hexDigest] = true
		}
	}

	return groups, targetHit
}

package dupscan

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Candidate origins, carried as skiplist context. Of-mode group
// filtering keeps only groups containing at least one target.
const (
	originTarget = "target" // explicitly given file
	originScan   = "scan"   // discovered by directory expansion
)

// fileIdentity identifies a physical file on disk. Two paths with the
// same identity (hardlinks, or symlink aliases under follow mode) are
// one file and must never be grouped with each other.
type fileIdentity struct {
	Dev uint64
	Ino uint64
}

func (id fileIdentity) isZero() bool {
	return id.Dev == 0 && id.Ino == 0
}

// candidateFile is one file queued for hashing
type candidateFile struct {
	Path     string // cleaned absolute path
	Size     int64
	Identity fileIdentity
}

// candidateSet is the deduplicated, lexicographically sorted set of
// files to examine in one invocation. Path-level dedup comes from the
// skiplist key; physical-identity dedup from the identity index.
type candidateSet struct {
	skiplist *zcsl.ZeroCopySkiplist[candidateFile, string, string]
	byIdent  map[fileIdentity]string // identity -> first path added
	count    int
}

func newCandidateSet() *candidateSet {
	getKeyFromItem := func(cf *candidateFile) string {
		return cf.Path
	}

	getItemSize := func(cf *candidateFile) int {
		return len(cf.Path)
	}

	skiplist := zcsl.MakeZeroCopySkiplist[candidateFile, string, string](
		16,
		getKeyFromItem,
		getItemSize,
		strings.Compare,
	)

	return &candidateSet{
		skiplist: skiplist,
		byIdent:  map[fileIdentity]string{},
	}
}

// Add inserts a candidate with the given origin. Re-adding a path (or
// another path naming the same physical file) is a no-op, except that
// a target origin is promoted onto the already-present entry so the
// of-mode filter still sees it. Returns true if a new entry was added.
func (cs *candidateSet) Add(cf candidateFile, origin string) bool {
	if node, existing := cs.skiplist.Find(cf.Path); node != nil {
		if origin == originTarget && existing != originTarget {
			cs.skiplist.UpdateContext(cf.Path, origin)
		}
		return false
	}

	if !cf.Identity.isZero() {
		if firstPath, seen := cs.byIdent[cf.Identity]; seen {
			// Same physical file already queued under another path.
			if origin == originTarget {
				cs.skiplist.UpdateContext(firstPath, origin)
			}
			if IsDebugEnabled("scan") {
				VerboseLog(3, "candidateSet: %s aliases %s, skipping", cf.Path, firstPath)
			}
			return false
		}
		cs.byIdent[cf.Identity] = cf.Path
	}

	cs.skiplist.Insert(&cf, origin)
	cs.count++
	return true
}

// Len returns the number of distinct candidates
func (cs *candidateSet) Len() int {
	return cs.count
}

// ForEach iterates candidates in lexicographic path order
func (cs *candidateSet) ForEach(callback func(*candidateFile, string) bool) {
	for current := cs.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item(), current.Context()) {
			break
		}
	}
}

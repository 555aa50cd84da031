// Package dupscan finds duplicate files by content.
//
// Duplicates are established strictly by whole-file content equality,
// using a cryptographic digest as a collision-resistant proxy for exact
// comparison. The package never deduplicates by filename or by size
// alone (file size is only used as a pre-filter to skip hashing files
// that cannot possibly have a duplicate).
//
// # Core API
//
// The main entry point is Checker, which carries configuration
// (digest algorithm, worker count, symlink policy):
//
//	checker, err := dupscan.NewChecker(map[string]string{})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Build a Mode describing what to search, then run it:
//
//	mode, err := dupscan.DuplicatesWithin([]string{"/home/user/photos"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := checker.FindDuplicates(mode)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, group := range results.Groups {
//		fmt.Printf("Hash %s: %v\n", group.Hash, group.Files)
//	}
//
// # Modes
//
//   - DuplicatesOfWithin(files, dirs): search dirs for duplicates of files.
//   - DuplicatesOf(files): search each file's parent directory.
//   - DuplicatesWithin(dirs): find all duplicates inside dirs.
//   - DuplicatesAmong(files): check an explicit file list against itself.
//
// # Errors and warnings
//
// A failure to enumerate a given directory aborts the whole run: an
// incomplete candidate set would silently under-report duplicates.
// A failure to read one already-enumerated file does not abort; the
// file is excluded from grouping and recorded in Results.Warnings so
// the caller can report it.
//
// # Configuration
//
// Defaults are read from an INI config file (see LoadConfig); the
// flags map passed to NewChecker overrides individual settings:
//
//	checker, err := dupscan.NewChecker(map[string]string{
//		"hash":         "sha512",
//		"hash_workers": "8",
//	})
//
// Enable debug output:
//
//	dupscan.SetDebugFlags("scan,hash")
//	dupscan.SetVerboseLevel(2)
package dupscan

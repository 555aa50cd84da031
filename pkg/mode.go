package dupscan

// modeKind selects the candidate-set construction strategy
type modeKind int

const (
	modeOfWithin   modeKind = iota // duplicates of files, searched in dirs
	modeOfOnly                     // duplicates of files, searched in their parent dirs
	modeWithinOnly                 // all duplicates inside dirs
	modeAmong                      // duplicates among an explicit file list
)

// Mode describes one duplicate search as a tagged variant. A Mode can
// only be obtained from a constructor that has validated its inputs,
// so an empty or contradictory search is not representable downstream.
type Mode struct {
	kind  modeKind
	files []string
	dirs  []string
}

// DuplicatesOfWithin builds a mode that searches dirs for duplicates
// of files. The files themselves are included in their matching
// groups even when no dir contains them.
func DuplicatesOfWithin(files, dirs []string) (Mode, error) {
	if len(files) == 0 {
		return Mode{}, newInputError("no files given")
	}
	if len(dirs) == 0 {
		return Mode{}, newInputError("no directories given")
	}
	return Mode{kind: modeOfWithin, files: files, dirs: dirs}, nil
}

// DuplicatesOf builds a mode that searches each file's parent
// directory (immediate entries only, no recursion) for duplicates of
// that file.
func DuplicatesOf(files []string) (Mode, error) {
	if len(files) == 0 {
		return Mode{}, newInputError("no files given")
	}
	return Mode{kind: modeOfOnly, files: files}, nil
}

// DuplicatesWithin builds a mode that finds all duplicates among the
// full recursive contents of dirs.
func DuplicatesWithin(dirs []string) (Mode, error) {
	if len(dirs) == 0 {
		return Mode{}, newInputError("no directories given")
	}
	return Mode{kind: modeWithinOnly, dirs: dirs}, nil
}

// DuplicatesAmong builds a mode that checks an explicit list of files
// against each other, with no directory expansion at all.
func DuplicatesAmong(files []string) (Mode, error) {
	if len(files) == 0 {
		return Mode{}, newInputError("no files given")
	}
	return Mode{kind: modeAmong, files: files}, nil
}

// usesTargets reports whether groups must contain at least one of the
// originally given files to be reported
func (m Mode) usesTargets() bool {
	return m.kind == modeOfWithin || m.kind == modeOfOnly
}

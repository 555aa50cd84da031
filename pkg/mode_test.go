package dupscan

import (
	"testing"
)

func TestModeConstructors_RejectEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		make func() (Mode, error)
	}{
		{"DuplicatesOf with no files", func() (Mode, error) { return DuplicatesOf(nil) }},
		{"DuplicatesWithin with no dirs", func() (Mode, error) { return DuplicatesWithin(nil) }},
		{"DuplicatesAmong with no files", func() (Mode, error) { return DuplicatesAmong(nil) }},
		{"DuplicatesOfWithin with no files", func() (Mode, error) { return DuplicatesOfWithin(nil, []string{"/tmp"}) }},
		{"DuplicatesOfWithin with no dirs", func() (Mode, error) { return DuplicatesOfWithin([]string{"/tmp/a"}, nil) }},
	}

	for _, tt := range tests {
		_, err := tt.make()
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if _, ok := err.(*InputError); !ok {
			t.Errorf("%s: expected *InputError, got %T", tt.name, err)
		}
	}
}

func TestModeConstructors_ValidInputs(t *testing.T) {
	if _, err := DuplicatesOf([]string{"/tmp/a"}); err != nil {
		t.Errorf("DuplicatesOf failed: %v", err)
	}
	if _, err := DuplicatesWithin([]string{"/tmp"}); err != nil {
		t.Errorf("DuplicatesWithin failed: %v", err)
	}
	if _, err := DuplicatesOfWithin([]string{"/tmp/a"}, []string{"/tmp"}); err != nil {
		t.Errorf("DuplicatesOfWithin failed: %v", err)
	}
	if _, err := DuplicatesAmong([]string{"/tmp/a", "/tmp/b"}); err != nil {
		t.Errorf("DuplicatesAmong failed: %v", err)
	}
}

func TestModeUsesTargets(t *testing.T) {
	ofMode, _ := DuplicatesOf([]string{"/tmp/a"})
	if !ofMode.usesTargets() {
		t.Error("DuplicatesOf mode should filter groups by target")
	}

	withinMode, _ := DuplicatesWithin([]string{"/tmp"})
	if withinMode.usesTargets() {
		t.Error("DuplicatesWithin mode should not filter groups by target")
	}

	amongMode, _ := DuplicatesAmong([]string{"/tmp/a"})
	if amongMode.usesTargets() {
		t.Error("DuplicatesAmong mode should not filter groups by target")
	}
}

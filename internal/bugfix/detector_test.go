package bugfix

import (
	"testing"
	"time"

	"github.com/masmgr/pvcslog-go/internal/pvcs"
)

func TestNewDetector_ValidPatterns(t *testing.T) {
	patterns := []string{`\bfix(ed|es)?\b`, `\bbug\b`, `\bhotfix\b`}
	d, err := NewDetector(patterns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.patterns) != 3 {
		t.Errorf("expected 3 compiled patterns, got %d", len(d.patterns))
	}
}

func TestNewDetector_InvalidPattern(t *testing.T) {
	_, err := NewDetector([]string{`[invalid`})
	if err == nil {
		t.Fatal("expected error for invalid pattern, got nil")
	}
}

func TestNewDetector_SkipsBlankPatterns(t *testing.T) {
	d, err := NewDetector([]string{"fix", "", "  ", "bug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.patterns) != 2 {
		t.Errorf("expected 2 compiled patterns, got %d", len(d.patterns))
	}
}

func TestNewDetector_DefaultPatternsCompile(t *testing.T) {
	if _, err := NewDetector(DefaultPatterns); err != nil {
		t.Fatalf("DefaultPatterns: %v", err)
	}
}

func TestIsBugfix(t *testing.T) {
	d, err := NewDetector(DefaultPatterns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		comment string
		want    bool
	}{
		{"matches fix", "fix null pointer in AddBankRequest", true},
		{"matches fixed", "fixed typo in project name", true},
		{"matches fixes on second line", "Bump commons-logging\nFixes build failure", true},
		{"matches bug", "bug in interest calculation", true},
		{"matches defect", "Defect 42: wrong rounding", true},
		{"matches change request", "SCR 1234 rounding", true},
		{"case insensitive", "HOTFIX for production", true},
		{"no match", "Initial revision.", false},
		{"partial word no match", "prefix fixation suffix", false},
		{"empty comment", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.IsBugfix(tt.comment); got != tt.want {
				t.Errorf("IsBugfix(%q) = %v, want %v", tt.comment, got, tt.want)
			}
		})
	}
}

func makeChangeSet() *pvcs.ChangeSet {
	when := time.Date(2008, time.October, 1, 10, 0, 0, 0, time.UTC)
	set := pvcs.NewChangeSet()
	set.Add(pvcs.ChangeEntry{FileName: "aps/Login.java", Revision: "1.3", Author: "alice", Comment: "fix: null pointer in login", ModifiedTime: &when})
	set.Add(pvcs.ChangeEntry{FileName: "aps/Profile.java", Revision: "1.0", Author: "bob", Comment: "Initial revision."})
	set.Add(pvcs.ChangeEntry{FileName: "aps/Login.java", Revision: "1.2", Author: "carol", Comment: "bug: incorrect validation"})
	set.Add(pvcs.ChangeEntry{FileName: "aps/Rules.java", Revision: "1.7", Author: "carol", Comment: "bug: incorrect validation"})
	return set
}

func TestDetect(t *testing.T) {
	d, err := NewDetector([]string{`\bfix\b`, `\bbug\b`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := d.Detect(makeChangeSet())

	if result.TotalBugfixes != 3 {
		t.Errorf("TotalBugfixes = %d, want 3", result.TotalBugfixes)
	}
	expected := []int{0, 2, 3}
	if len(result.Entries) != len(expected) {
		t.Fatalf("Entries = %v, want %v", result.Entries, expected)
	}
	for i, idx := range expected {
		if result.Entries[i] != idx {
			t.Errorf("Entries[%d] = %d, want %d", i, result.Entries[i], idx)
		}
	}
	if result.IsBugfixEntry(1) {
		t.Error("expected entry 1 to NOT be a bugfix")
	}
	if !result.IsBugfixEntry(2) {
		t.Error("expected entry 2 to be a bugfix")
	}

	if result.FileBugfixCounts["aps/Login.java"] != 2 {
		t.Errorf("FileBugfixCounts[aps/Login.java] = %d, want 2", result.FileBugfixCounts["aps/Login.java"])
	}
	if result.FileBugfixCounts["aps/Rules.java"] != 1 {
		t.Errorf("FileBugfixCounts[aps/Rules.java] = %d, want 1", result.FileBugfixCounts["aps/Rules.java"])
	}
	if _, ok := result.FileBugfixCounts["aps/Profile.java"]; ok {
		t.Error("aps/Profile.java should not be counted")
	}
}

func TestResult_IsBugfixEntry(t *testing.T) {
	// Entries need not be sorted when a Result is built by hand.
	result := &Result{Entries: []int{7, 2, 40}}

	for _, i := range []int{2, 7, 40} {
		if !result.IsBugfixEntry(i) {
			t.Errorf("IsBugfixEntry(%d) = false, want true", i)
		}
	}
	for _, i := range []int{-1, 0, 3, 41} {
		if result.IsBugfixEntry(i) {
			t.Errorf("IsBugfixEntry(%d) = true, want false", i)
		}
	}

	var empty Result
	if empty.IsBugfixEntry(0) {
		t.Error("empty result should classify nothing")
	}
}

func TestDetect_NoPatterns(t *testing.T) {
	d, _ := NewDetector([]string{})
	result := d.Detect(makeChangeSet())

	if result.TotalBugfixes != 0 {
		t.Errorf("TotalBugfixes = %d, want 0", result.TotalBugfixes)
	}
	if len(result.Entries) != 0 {
		t.Errorf("Entries length = %d, want 0", len(result.Entries))
	}
	if len(result.FileBugfixCounts) != 0 {
		t.Errorf("FileBugfixCounts length = %d, want 0", len(result.FileBugfixCounts))
	}
}

func TestDetect_EmptySet(t *testing.T) {
	d, _ := NewDetector([]string{`\bfix\b`})

	for name, set := range map[string]*pvcs.ChangeSet{"empty": pvcs.NewChangeSet(), "nil": nil} {
		t.Run(name, func(t *testing.T) {
			if result := d.Detect(set); result.TotalBugfixes != 0 {
				t.Errorf("TotalBugfixes = %d, want 0", result.TotalBugfixes)
			}
		})
	}
}

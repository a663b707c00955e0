package ui

import "testing"

func TestTruncate(t *testing.T) {
	if got := truncate("  Green Tea  ", 20); got != "Green Tea" {
		t.Fatalf("truncate short = %q, want trimmed", got)
	}
	if got := truncate("Green Tea Leaves", 8); got != "Green..." {
		t.Fatalf("truncate = %q, want Green...", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate limit<=3 = %q, want ab", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("https://img.example.com/products/banana.png", 20)
	if len([]rune(got)) != 20 {
		t.Fatalf("got %q (%d runes), want 20", got, len([]rune(got)))
	}
	if got[len(got)-len("banana.png"):] != "banana.png" {
		t.Fatalf("got %q, want file name kept", got)
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("WARN"); got != "Warn" {
		t.Fatalf("titleCase(WARN) = %q", got)
	}
	if got := titleCase("share_copied"); got != "Share Copied" {
		t.Fatalf("titleCase(share_copied) = %q", got)
	}
}

func TestVisibleWindowKeepsCursorInView(t *testing.T) {
	cases := []struct {
		cur, n, rows   int
		wantLo, wantHi int
	}{
		{0, 3, 10, 0, 3},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, tc := range cases {
		lo, hi := visibleWindow(tc.cur, tc.n, tc.rows)
		if lo != tc.wantLo || hi != tc.wantHi {
			t.Fatalf("visibleWindow(%d,%d,%d) = [%d,%d), want [%d,%d)", tc.cur, tc.n, tc.rows, lo, hi, tc.wantLo, tc.wantHi)
		}
		if tc.cur < lo || tc.cur >= hi {
			t.Fatalf("cursor %d outside window [%d,%d)", tc.cur, lo, hi)
		}
	}
}

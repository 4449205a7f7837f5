package ui

import (
	"strings"
	"testing"
)

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	if got := truncateMiddle("short.png", 20); got != "short.png" {
		t.Fatalf("truncateMiddle fits = %q, want unchanged", got)
	}
	got := truncateMiddle("a/b/c/d/e", 7)
	if got == "a/b/c/d/e" {
		t.Fatalf("expected truncation")
	}
	if len([]rune(got)) > 7 {
		t.Fatalf("got %q (%d runes), want <=7", got, len([]rune(got)))
	}
	if !strings.HasPrefix(got, "a/b") || !strings.HasSuffix(got, "d/e") {
		t.Fatalf("got %q, want both ends kept", got)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1024, "1.00 KiB"},
		{1536, "1.50 KiB"},
		{1024 * 1024, "1.00 MiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.in); got != tc.want {
			t.Fatalf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestComputeLayout(t *testing.T) {
	l := computeLayout(120, 40, false)
	if l.picker.w != 120 || l.result != (box{}) {
		t.Fatalf("layout without result = %+v, want picker only", l)
	}

	l = computeLayout(120, 40, true)
	if l.stacked || l.picker.w+l.result.w != 120 || l.picker.h != l.result.h {
		t.Fatalf("wide layout = %+v, want side by side", l)
	}

	l = computeLayout(60, 40, true)
	if !l.stacked || l.picker.w != 60 || l.result.w != 60 {
		t.Fatalf("narrow layout = %+v, want stacked", l)
	}
	if l.picker.h+l.result.h != 40-headerRows-actionRows-footerRows {
		t.Fatalf("stacked heights = %d+%d, want the whole body", l.picker.h, l.result.h)
	}

	l = computeLayout(10, 2, true)
	if l.picker.h < minPaneRows || l.result.h < minPaneRows {
		t.Fatalf("tiny layout = %+v, want minimum pane rows", l)
	}
	if in := (box{w: 2, h: 1}).inner(); in.w != 0 || in.h != 0 {
		t.Fatalf("inner of tiny box = %+v, want zero", in)
	}
}

package tui

import (
	"strings"
	"testing"
)

func TestNextMonths(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{3, 6},
		{6, 12},
		{12, 24},
		{24, 3}, // wraps
		{5, 6},  // off-cycle config value snaps forward
		{1, 3},
		{100, 3},
	}
	for _, tc := range cases {
		if got := nextMonths(tc.in); got != tc.want {
			t.Errorf("nextMonths(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestWidgetRows(t *testing.T) {
	wide := App{width: 140}
	rows := wide.widgetRows()
	if len(rows) != 3 {
		t.Fatalf("wide layout has %d rows, want 3", len(rows))
	}
	for i, row := range rows {
		if len(row) != 2 {
			t.Errorf("wide row %d has %d panes, want 2", i, len(row))
		}
	}

	narrow := App{width: 90}
	rows = narrow.widgetRows()
	if len(rows) != 6 {
		t.Fatalf("compact layout has %d rows, want 6", len(rows))
	}
	for i, row := range rows {
		if len(row) != 1 {
			t.Errorf("compact row %d has %d panes, want 1", i, len(row))
		}
	}
}

func TestContentWidthIsCapped(t *testing.T) {
	a := App{width: 400}
	if got := a.contentWidth(); got != maxContentWidth {
		t.Errorf("contentWidth() = %d, want cap %d", got, maxContentWidth)
	}
}

func TestTruncateAndPadHeight(t *testing.T) {
	s := "a\nb\nc"

	if got := truncateHeight(s, 2); got != "a\nb" {
		t.Errorf("truncateHeight = %q, want %q", got, "a\nb")
	}
	if got := truncateHeight(s, 5); got != s {
		t.Errorf("truncateHeight below limit changed the string: %q", got)
	}

	padded := padHeight(s, 5)
	if got := len(strings.Split(padded, "\n")); got != 5 {
		t.Errorf("padHeight produced %d lines, want 5", got)
	}
	if got := padHeight(s, 2); got != s {
		t.Errorf("padHeight above target changed the string: %q", got)
	}
}

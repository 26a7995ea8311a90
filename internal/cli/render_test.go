package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Spending",
		Headers: []string{"Month", "Total"},
		Rows: [][]string{
			{"January", "$1,200.00"},
			{"Feb", "$80.50"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// Title, top border, header, separator, two rows, bottom border.
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "Spending") {
		t.Errorf("first line should carry the title: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "╭") || !strings.HasSuffix(lines[1], "╮") {
		t.Errorf("top border corners wrong: %q", lines[1])
	}

	// Every bordered line is the same printed width.
	want := lipgloss.Width(lines[1])
	for _, ln := range lines[1:] {
		if got := lipgloss.Width(ln); got != want {
			t.Errorf("ragged table: line %q is %d cells, want %d", ln, got, want)
		}
	}

	// First column left-aligned, second right-aligned.
	if !strings.Contains(out, "│ Feb     │") {
		t.Errorf("first column should be left-aligned:\n%s", out)
	}
	if !strings.Contains(out, "│    $80.50 │") {
		t.Errorf("second column should be right-aligned:\n%s", out)
	}
}

func TestRenderTableSeparatorRow(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Amount"},
		Rows: [][]string{
			{"food", "$10.00"},
			{"---"},
			{"Total", "$10.00"},
		},
	})

	// Header separator plus the explicit rule row.
	if got := strings.Count(out, "├"); got != 2 {
		t.Errorf("got %d rules, want 2:\n%s", got, out)
	}
	if strings.Contains(out, "---") {
		t.Errorf("rule marker leaked into output:\n%s", out)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if out := RenderTable(Table{}); out != "" {
		t.Errorf("empty table rendered %q, want empty", out)
	}
}

func TestRenderTableExplicitWidths(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"x", "y"}},
		Widths:  []int{10, 4},
	})
	lines := strings.Split(out, "\n")
	// 2 borders for a 10-wide and a 4-wide column plus padding and joints.
	if got, want := lipgloss.Width(lines[0]), 10+4+2*2+3; got != want {
		t.Errorf("top border is %d cells, want %d", got, want)
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"low and peak", []float64{0, 10}, "▁█"},
		{"all zero stays flat", []float64{0, 0, 0}, "▁▁▁"},
		{"monotone ramp", []float64{1, 2, 3, 4}, "▂▄▆█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	tests := []struct {
		name       string
		frac       float64
		width      int
		wantFilled int
		wantEmpty  int
	}{
		{"half", 0.5, 10, 5, 5},
		{"empty", 0, 8, 0, 8},
		{"full", 1, 8, 8, 0},
		{"clamps above one", 2.5, 6, 6, 0},
		{"clamps below zero", -1, 6, 0, 6},
		{"rounds", 0.25, 10, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderHorizontalBar(tt.frac, tt.width)
			if n := strings.Count(got, "█"); n != tt.wantFilled {
				t.Errorf("filled cells = %d, want %d", n, tt.wantFilled)
			}
			if n := strings.Count(got, "░"); n != tt.wantEmpty {
				t.Errorf("empty cells = %d, want %d", n, tt.wantEmpty)
			}
		})
	}
}

func TestRenderTitle(t *testing.T) {
	out := RenderTitle("FINSIGHT")
	if !strings.Contains(out, "FINSIGHT") {
		t.Errorf("title text missing:\n%s", out)
	}
	for _, ln := range strings.Split(out, "\n") {
		if got, want := lipgloss.Width(ln), 57; got != want {
			t.Errorf("title box line is %d cells, want %d: %q", got, want, ln)
		}
	}
}

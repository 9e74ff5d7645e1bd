// Package ui styles the human-readable console output of the xerex commands.
package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Status marks.
const (
	MarkPass = "✓"
	MarkWarn = "⚠️"
	MarkFail = "❌"
	MarkDone = "✅"
)

// RuleWidth is the width of the "=====" separators around reports.
const RuleWidth = 50

// Styles renders marks and messages, with color only on terminals.
type Styles struct {
	plain   bool
	success lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	muted   lipgloss.Style
	header  lipgloss.Style
}

// New returns Styles for w. Color is used only when w is a terminal and
// noColor is false.
func New(w io.Writer, noColor bool) *Styles {
	if noColor || !IsTerminal(w) {
		return &Styles{plain: true}
	}
	r := lipgloss.NewRenderer(w)
	return &Styles{
		success: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"}),
		warn:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}),
		fail:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}),
		muted:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}),
		header:  r.NewStyle().Bold(true),
	}
}

// Plain returns Styles that never emit escape codes.
func Plain() *Styles { return &Styles{plain: true} }

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (s *Styles) paint(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

// OK renders a passing line.
func (s *Styles) OK(msg string) string { return s.paint(s.success, MarkPass+" "+msg) }

// Warn renders a warning line.
func (s *Styles) Warn(msg string) string { return s.paint(s.warn, MarkWarn+" "+msg) }

// Fail renders a failing line.
func (s *Styles) Fail(msg string) string { return s.paint(s.fail, MarkFail+" "+msg) }

// Done renders a final success line.
func (s *Styles) Done(msg string) string { return s.paint(s.success, MarkDone+" "+msg) }

// Muted renders secondary text.
func (s *Styles) Muted(msg string) string { return s.paint(s.muted, msg) }

// Header renders a banner line.
func (s *Styles) Header(msg string) string { return s.paint(s.header, msg) }

// Rule returns a separator line.
func (s *Styles) Rule() string { return strings.Repeat("=", RuleWidth) }

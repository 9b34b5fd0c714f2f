// Package output provides consistent, emoji-prefixed CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RuleWidth is the width of the banner separator.
const RuleWidth = 60

// Writer provides formatted output for CLI.
type Writer struct {
	out    io.Writer
	styles Styles
}

// New creates a Writer that prints plain text.
func New(out io.Writer) *Writer {
	return &Writer{
		out:    out,
		styles: NoColorStyles(),
	}
}

// NewStyled creates a Writer that colors messages with the given styles.
func NewStyled(out io.Writer, styles Styles) *Writer {
	return &Writer{out: out, styles: styles}
}

// Out returns the underlying io.Writer.
func (w *Writer) Out() io.Writer {
	return w.out
}

// Status prints a status message with an icon.
// An empty icon indents the message instead.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Status(icon, msg string) {
	if icon != "" {
		_, _ = fmt.Fprintf(w.out, "%s %s\n", icon, msg)
	} else {
		_, _ = fmt.Fprintf(w.out, "   %s\n", msg)
	}
}

// Statusf prints a formatted status message with an icon.
func (w *Writer) Statusf(icon, format string, args ...any) {
	w.Status(icon, fmt.Sprintf(format, args...))
}

// Success prints a success message with checkmark.
func (w *Writer) Success(msg string) {
	w.Status("✅", w.render(w.styles.Success, msg))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", w.render(w.styles.Warning, msg))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (w *Writer) Error(msg string) {
	w.Status("❌", w.render(w.styles.Error, msg))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Hint prints a remediation hint.
func (w *Writer) Hint(msg string) {
	w.Status("💡", w.render(w.styles.Hint, msg))
}

// Hintf prints a formatted remediation hint.
func (w *Writer) Hintf(format string, args ...any) {
	w.Hint(fmt.Sprintf(format, args...))
}

// Section prints a blank line followed by an icon-led heading.
func (w *Writer) Section(icon, title string) {
	w.Newline()
	w.Status(icon, w.render(w.styles.Header, title))
}

// Item prints an indented list entry ("   - msg").
func (w *Writer) Item(msg string) {
	w.Status("", "- "+msg)
}

// Itemf prints a formatted list entry.
func (w *Writer) Itemf(format string, args ...any) {
	w.Item(fmt.Sprintf(format, args...))
}

// Line prints msg as-is.
func (w *Writer) Line(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Rule prints the banner separator.
func (w *Writer) Rule() {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Dim, strings.Repeat("=", RuleWidth)))
}

// Prompt prints msg without a trailing newline.
func (w *Writer) Prompt(msg string) {
	_, _ = fmt.Fprint(w.out, msg)
}

// Newline prints an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

func (w *Writer) render(s lipgloss.Style, msg string) string {
	if !w.styles.Enabled {
		return msg
	}
	return s.Render(msg)
}

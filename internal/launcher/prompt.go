package launcher

import (
	"bufio"
	"io"
	"strings"

	"github.com/gigsdata/envcheck/internal/output"
)

// LaunchPrompt is the question asked after a passing run.
const LaunchPrompt = "\nStart Jupyter Lab now? (y/N): "

// Confirm asks the launch question and reports whether the answer was "y"
// (case-insensitive, surrounding whitespace ignored). Anything else,
// including an empty line, end of input or a read error, is a no.
func Confirm(out *output.Writer, r io.Reader) bool {
	out.Prompt(LaunchPrompt)

	input, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && input == "" {
		// A closed stdin leaves the cursor on the prompt line.
		out.Newline()
		return false
	}

	return strings.ToLower(strings.TrimSpace(input)) == "y"
}

package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads one answer per line from an input stream.
type Prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompter creates a prompter that writes prompts to out and reads answers from in.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{scanner: bufio.NewScanner(in), out: out}
}

// Ask prints prompt and returns the next line with surrounding whitespace
// removed. It returns io.EOF once the input is exhausted.
func (p *Prompter) Ask(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

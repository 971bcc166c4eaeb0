package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"courtbook/pkg/sanitizer"
)

// Prompter reads one answer per line from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the next line without its line ending.
// io.EOF is returned once input is exhausted.
func (p *Prompter) Ask(question string) (string, error) {
	if question != "" {
		p.Println(question)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return sanitizer.TrimLine(line), nil
		}
		return "", err
	}
	return sanitizer.TrimLine(line), nil
}

func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// askUntil repeats question until parse accepts the answer. Parse errors
// are shown to the operator; only read errors are returned.
func askUntil[T any](p *Prompter, question string, parse func(string) (T, error)) (T, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		p.Println(capitalize(err.Error()) + ". Please try again.")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

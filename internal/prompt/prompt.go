// Package prompt implements the interactive yes/no and path questions asked
// for decisions the command line left unresolved. Questions are read from
// the controlling terminal rather than stdin, so prompting keeps working
// when the program's standard streams are piped or redirected.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks questions on an input/output pair. Production code obtains
// one with Terminal; tests construct one over in-memory readers.
type Prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	closer io.Closer
}

// New builds a Prompter over explicit streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Terminal opens the controlling terminal for both reading and writing.
// When no controlling terminal is available (detached sessions), it falls
// back to the process's own standard streams.
func Terminal() (*Prompter, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return New(os.Stdin, os.Stderr), nil
	}
	p := New(tty, tty)
	p.closer = tty
	return p, nil
}

// Close releases the controlling terminal, if one was opened.
func (p *Prompter) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

// Confirm asks a yes/no question with a stated default and loops until the
// answer is decisive. An empty line takes the default; any answer starting
// with y/Y means yes and any starting with n/N means no, regardless of the
// default. Everything else re-asks.
func (p *Prompter) Confirm(question string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.out, "%s %s ", question, suffix)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return def, nil
		}
		switch line[0] {
		case 'y', 'Y':
			return true, nil
		case 'n', 'N':
			return false, nil
		}
	}
}

// AskPath asks for a path and loops until a non-empty answer arrives. The
// answer is returned as typed; callers canonicalize it.
func (p *Prompter) AskPath(question string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s ", question)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
	}
}

func (p *Prompter) readLine() (string, error) {
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}

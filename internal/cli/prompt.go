package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// Terminal is the interactive prompter. Prompts and notices go to out so
// stdout stays clean for command output.
type Terminal struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), fd: -1, out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		t.tty = true
	}
	return t
}

func (t *Terminal) Line(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = fmt.Fprint(t.out, label)
	return t.readLine()
}

// Secret reads without echo on a terminal, and as a plain line otherwise.
func (t *Terminal) Secret(ctx context.Context, label string) (string, error) {
	b, err := t.secretBytes(ctx, label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (t *Terminal) secretBytes(ctx context.Context, label string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, _ = fmt.Fprint(t.out, label)
	if !t.tty {
		line, err := t.readLine()
		return []byte(line), err
	}
	b, err := term.ReadPassword(t.fd)
	_, _ = fmt.Fprintln(t.out)
	if err != nil {
		return nil, errors.Wrap(err, "read hidden input")
	}
	return b, nil
}

// Confirm asks a yes/no question. With defaultYes anything but an explicit
// no accepts; otherwise only an explicit yes does.
func (t *Terminal) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	answer, err := t.Line(ctx, question+" "+hint+" ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return parseAnswer(answer, defaultYes), nil
}

func (t *Terminal) Notify(msg string) {
	_, _ = fmt.Fprintln(t.out, msg)
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseAnswer(answer string, defaultYes bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPasswordFn is a test seam for term.ReadPassword. Tests replace it to
// avoid touching the terminal.
var readPasswordFn = term.ReadPassword

// isTerminalFn is a test seam for term.IsTerminal.
var isTerminalFn = term.IsTerminal

// promptLine prints a prompt to w and reads a single trimmed line. A partial
// line followed by EOF is still returned.
func promptLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read otherwise (piped input in tests and
// scripts).
func promptPassword(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminalFn(fd) {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	pw, err := readPasswordFn(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// promptConfirm asks a yes/no question and reports the answer. Anything but
// "y" or "yes" counts as no.
func promptConfirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	answer, err := promptLine(reader, prompt+" (y/n): ", w)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

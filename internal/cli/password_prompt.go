package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordPrompt prints label and returns what the operator typed.
type PasswordPrompt func(label string) ([]byte, error)

// TerminalPrompt disables echo when stdin is a terminal and falls back to a
// plain line read for piped input.
func TerminalPrompt(stdin *os.File, out io.Writer) PasswordPrompt {
	reader := bufio.NewReader(stdin)
	return func(label string) ([]byte, error) {
		if stdin == nil {
			return nil, errors.New("stdin unavailable")
		}
		fmt.Fprint(out, label)

		fd := int(stdin.Fd())
		if term.IsTerminal(fd) {
			password, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return password, err
		}

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}
}

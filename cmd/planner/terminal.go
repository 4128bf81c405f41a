package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
)

// terminalNotifier asks and tells the operator on the terminal.
type terminalNotifier struct {
	in     *bufio.Reader
	out    io.Writer
	assume bool
}

func newTerminalNotifier(assumeYes bool) *terminalNotifier {
	return &terminalNotifier{in: bufio.NewReader(os.Stdin), out: os.Stderr, assume: assumeYes}
}

func (t *terminalNotifier) Confirm(ctx context.Context, prompt string) bool {
	if t.assume {
		return true
	}
	fmt.Fprintf(t.out, "%s [y/N] ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (t *terminalNotifier) Notify(ctx context.Context, message string, kind domain.NoticeKind) {
	fmt.Fprintf(t.out, "[%s] %s\n", strings.ToUpper(string(kind)), message)
}

package cmd

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/masmgr/worklog-go/internal/errdefs"
)

// editorCommand returns the user's editor command line, falling back to vi.
func editorCommand() []string {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(key)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// runEditor opens path in the user's editor attached to the terminal.
var runEditor = func(ctx context.Context, path string) error {
	args := editorCommand()
	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// editText lets the user revise text in an editor and returns the trimmed result.
func editText(ctx context.Context, text string) (string, error) {
	const op = "edit comment"

	f, err := os.CreateTemp("", "worklog-*.md")
	if err != nil {
		return "", errdefs.New(errdefs.KindIO, op, err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", errdefs.New(errdefs.KindIO, op, err)
	}
	if err := f.Close(); err != nil {
		return "", errdefs.New(errdefs.KindIO, op, err)
	}

	if err := runEditor(ctx, path); err != nil {
		return "", errdefs.New(errdefs.KindIO, op, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errdefs.New(errdefs.KindIO, op, err)
	}
	return strings.TrimSpace(string(data)), nil
}

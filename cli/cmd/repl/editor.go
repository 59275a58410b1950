package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-compile-retry loop.
// It writes the session source to a temp file, opens the user's editor,
// and replaces the session with the result. On a compile error the user is
// prompted to re-edit; declining exits the program.
type editCommand struct {
	session  *Session
	ctxFunc  func() context.Context
	logger   log.Logger
	replaced bool
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An emptied file cancels the edit.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()
	content := c.session.Source()

	f, err := os.CreateTemp(os.TempDir(), "pyx-repl-*.pyx")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		err = c.session.Replace(ctx, string(data))
		c.logger.TraceContext(ctx, "editor compile attempt",
			slog.Int("bytes", len(data)),
			slog.Bool("success", err == nil))

		if err == nil {
			c.replaced = true

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", lang.Describe(err, data))
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = string(data)
	}
}

// runEditor runs $EDITOR, or vi, on path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...) //nolint:gosec
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

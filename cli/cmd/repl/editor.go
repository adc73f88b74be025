package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/skiff/lang"
	"github.com/ardnew/skiff/log"
	"github.com/ardnew/skiff/pkg"
)

const (
	defaultEditor     = "vi"
	defaultEditIndent = 2
)

// editSessionCommand implements [tea.ExecCommand] for the full
// edit-parse-retry loop. It renders the session's bindings as a script of
// let statements, opens the user's editor on it, and replays the edited
// script into a fresh interpreter. On error the user is prompted to
// re-edit; declining exits the program.
type editSessionCommand struct {
	it      *lang.Interp
	fresh   func() *lang.Interp
	ctxFunc func() context.Context
	newIt   *lang.Interp
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editSessionCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editSessionCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editSessionCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It renders the session, opens
// the editor, and replays the result into a fresh interpreter, prompting
// on error. If the user declines to re-edit, it returns [ErrEditDeclined].
func (c *editSessionCommand) Run() error {
	ctx := c.ctxFunc()

	// Render the session's bindings to native syntax.
	var buf bytes.Buffer
	if err := sessionScript(ctx, c.it, &buf); err != nil {
		return fmt.Errorf("render session: %w", err)
	}

	content := buf.String()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.ScriptExt)
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
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		// Launch editor and get a reader over the result.
		r, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		// Check for empty file (user cleared content).
		br := bufio.NewReader(r)
		if _, err := br.Peek(1); err != nil {
			// EOF or read error; treat as cancelled edit.
			return nil
		}

		data, err := io.ReadAll(br)
		if err != nil {
			return err
		}

		// Replay the edited script into a fresh interpreter so the
		// session reflects exactly what the file declares.
		next := c.fresh()

		_, runErr := next.Run(ctx, data)

		c.logger.TraceContext(
			ctx,
			"editor replay attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", runErr == nil),
		)

		if runErr == nil {
			c.newIt = next

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\n%s\n", lang.Detail(runErr, data))
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Re-read the (failed) content for the next editor iteration.
		data, readErr := os.ReadFile(tmpPath)
		if readErr != nil {
			return readErr
		}

		content = string(data)
	}
}

// sessionScript renders the session's global bindings as a script of let
// statements. Null bindings are omitted: the language has no null
// literal to re-declare them with.
func sessionScript(ctx context.Context, it *lang.Interp, w io.Writer) error {
	prog := new(lang.Program)

	for name, val := range it.Globals() {
		node := literalNode(val)
		if node == nil {
			continue
		}

		prog.Stmts = append(prog.Stmts, &lang.LetStmt{Name: name, Value: node})
	}

	return prog.Format(ctx, w, defaultEditIndent)
}

// literalNode returns the literal expression for a value, or nil when no
// literal form exists.
func literalNode(val lang.Value) lang.Node {
	switch val.Kind() {
	case lang.KindNumber:
		return &lang.NumberLit{Value: val.Num()}

	case lang.KindString:
		return &lang.StringLit{Value: val.Str()}

	case lang.KindBool:
		return &lang.BoolLit{Value: val.Bool()}

	default:
		return nil
	}
}

// runEditor launches the user's editor on the given file path and returns a
// reader over the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (io.Reader, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return f, nil
}

package repl

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It writes a pipeline to a temp
// file, opens the user's editor on it, and reads back the result.
type editCommand struct {
	ctx    context.Context
	text   string
	result string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor and stores the edited, trimmed text in c.result.
func (c *editCommand) Run() error {
	f, err := os.CreateTemp(os.TempDir(), "spipe-repl-*.pipe")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	_, err = f.WriteString(c.text + "\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c.result = strings.TrimSpace(string(data))

	return nil
}

// editorCommand returns the user's editor and its arguments.
func editorCommand() ([]string, error) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields, nil
		}
	}

	if path, err := exec.LookPath(defaultEditor); err == nil {
		return []string{path}, nil
	}

	return nil, ErrNoEditor
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	argv, err := editorCommand()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/steveyegge/projmigrate/internal/migrate"
)

// ErrAborted is returned when the operator cancels a prompt.
var ErrAborted = errors.New("aborted by user")

// StatusPrompter asks the operator to fix the Status field by hand. On a
// terminal it shows a confirm dialog; otherwise it waits for a line on In.
type StatusPrompter struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool

	lines *bufio.Reader
}

// NewStatusPrompter returns a prompter on stdin/stdout.
func NewStatusPrompter() *StatusPrompter {
	return &StatusPrompter{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: IsInputTerminal() && IsTerminal(),
	}
}

// ConfirmStatus prints the instructions and blocks until the operator
// confirms. There is no timeout.
func (p *StatusPrompter) ConfirmStatus(ctx context.Context, prompt migrate.StatusPrompt) error {
	fmt.Fprintln(p.Out, RenderMarkdown(prompt.Message))
	if p.Interactive {
		return p.confirm(ctx, prompt)
	}
	return p.waitForLine(ctx)
}

func (p *StatusPrompter) confirm(ctx context.Context, prompt migrate.StatusPrompt) error {
	title := fmt.Sprintf("Have you updated the %s field?", prompt.FieldName)
	if prompt.Retry {
		title = fmt.Sprintf("Have you fixed the %s field?", prompt.FieldName)
	}

	done := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes, check it").
				Negative("Abort").
				Value(&done),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt: %w", err)
	}
	if !done {
		return ErrAborted
	}
	return nil
}

func (p *StatusPrompter) waitForLine(ctx context.Context) error {
	if p.lines == nil {
		p.lines = bufio.NewReader(p.In)
	}
	fmt.Fprint(p.Out, RenderMuted("Press Enter once the options are saved: "))

	result := make(chan error, 1)
	go func() {
		_, err := p.lines.ReadString('\n')
		result <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: input closed", ErrAborted)
		}
		return err
	}
}

package dashboardview

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	apperr "github.com/fjord-cli/fjord/internal/err"
	"github.com/fjord-cli/fjord/internal/iostreams"
	"github.com/fjord-cli/fjord/internal/log"
	"golang.org/x/term"
)

// Run takes over the terminal on streams and runs the dashboard until the
// user quits, ctx is cancelled, or a fetch fails. The terminal is restored
// before Run returns. A fetch failure is returned as is; failures of the
// terminal itself are wrapped in a TerminalError.
func Run(ctx context.Context, streams *iostreams.IOStreams, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if streams == nil || streams.In == nil || streams.Out == nil {
		return &apperr.TerminalError{Err: errors.New("input and output streams are required")}
	}

	model, err := NewModel(ctx, opts)
	if err != nil {
		return err
	}
	if w, h, ok := terminalSize(streams.Out); ok {
		model.width, model.height = w, h
	}

	// stderr belongs to the alternate screen until the program exits
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	return programResult(ctx, final, err)
}

// programResult maps how the program ended to Run's error. An interrupt or a
// cancelled ctx is a normal quit.
func programResult(ctx context.Context, final tea.Model, err error) error {
	switch {
	case errors.Is(err, tea.ErrInterrupted):
		return nil
	case errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil:
		return nil
	case err != nil:
		return &apperr.TerminalError{Err: err}
	}
	if m, ok := final.(*Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

func terminalSize(out any) (int, int, bool) {
	fd, ok := iostreams.FD(out)
	if !ok {
		return 0, 0, false
	}
	w, h, err := term.GetSize(int(fd))
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

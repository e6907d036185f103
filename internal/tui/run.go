package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Run runs the editor until the user quits or ctx is done. The result is
// valid whenever the program itself ran.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Store == nil {
		return Result{}, errors.New("tui: no store")
	}

	zm := zone.New()
	defer zm.Close()

	model := NewModel(opts, zm)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if opts.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	model.log.Debug("starting editor", "mouse", opts.Mouse, "altScreen", opts.AltScreen)
	final, err := tea.NewProgram(model, progOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return model.result, ctx.Err()
		}
		return model.result, fmt.Errorf("failed to run editor: %w", err)
	}
	result := model.result
	if m, ok := final.(*Model); ok {
		result = m.result
	}
	model.log.Debug("editor stopped", "dropToShell", result.DropToShell)
	return result, nil
}

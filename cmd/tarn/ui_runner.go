package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tarn/internal/analysis"
	"tarn/internal/core"
	"tarn/internal/driver"
	"tarn/internal/ui"
)

type lowerOutcome struct {
	result *driver.Result
	err    error
}

func runLowerWithUI(ctx context.Context, title string, prog *core.Program, facts *analysis.Facts, opts driver.Options) (*driver.Result, error) {
	if prog == nil {
		return nil, fmt.Errorf("missing program")
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Observe = func(ev driver.Event) { events <- ev }
		res, err := driver.Lower(ctx, prog, facts, optsCopy)
		outcomeCh <- lowerOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewLowerModel(title, len(prog.Names()), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// Keep draining so the workers never block once the UI stops reading.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jvmabi/internal/pipeline"
	"jvmabi/internal/plan"
	"jvmabi/internal/ui"
)

type planOutcome struct {
	result *plan.Plan
	err    error
}

// runPlanWithUI plans in the background while the progress UI renders on
// stderr.
func runPlanWithUI(ctx context.Context, title string, classes []string, req plan.Request) (*plan.Plan, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan planOutcome, 1)

	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := plan.Build(ctx, req)
		outcomeCh <- planOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, classes, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the UI may quit early; keep the planner from blocking on a full channel
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

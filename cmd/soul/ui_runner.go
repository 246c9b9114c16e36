package main

import (
	"context"
	"os"

	"soul/internal/driver"
	"soul/internal/ui"
)

type runOutcome struct {
	result *driver.ProjectResult
	err    error
}

// runWithUI parses the project while the progress view reads events. Quitting
// the view cancels the run.
func runWithUI(ctx context.Context, title string, setup *runSetup) (*driver.ProjectResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		opts := setup.opts
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, setup.project, opts)
		close(events)
		outcomeCh <- runOutcome{result: res, err: err}
	}()

	uiErr := ui.Run(os.Stderr, title, setup.project.Root, setup.project.Targets, events)
	if uiErr != nil {
		cancel()
	}
	// прогресс-вид мог выйти раньше: дочитываем события, чтобы воркеры не встали
	for range events {
		cancel()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}

// runProject runs with or without the progress view.
func runProject(ctx context.Context, title string, setup *runSetup, withUI bool) (*driver.ProjectResult, error) {
	if withUI {
		return runWithUI(ctx, title, setup)
	}
	return driver.Run(ctx, setup.project, setup.opts)
}

package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"trivet/internal/driver"
	"trivet/internal/ui"
)

type outcome[T any] struct {
	result T
	err    error
}

// runWithUI runs work in the background and renders its progress events
// until it returns. The progress view goes to out; the caller prints the
// result after the view has quit.
func runWithUI[T any](out io.Writer, title string, files []string, work func(sink driver.ProgressSink) (T, error)) (T, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan outcome[T], 1)

	go func() {
		res, err := work(driver.ChannelSink{Ch: events})
		outcomeCh <- outcome[T]{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал, воркеры не должны на нём зависнуть
		go func() {
			for range events {
			}
		}()
	}
	done := <-outcomeCh
	if uiErr != nil {
		return done.result, uiErr
	}
	return done.result, done.err
}

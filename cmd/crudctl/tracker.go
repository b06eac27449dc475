package main

import (
	"errors"
	"sync"

	"github.com/iota-uz/crudkit/pkg/notify"
)

// tracker forwards notifications and remembers what a screen reported, so
// commands can turn absorbed failures into exit codes.
type tracker struct {
	notify.Notifier

	mu        sync.Mutex
	successes int
	lastError string
}

func (t *tracker) Success(msg string) {
	t.Notifier.Success(msg)
	t.mu.Lock()
	t.successes++
	t.mu.Unlock()
}

func (t *tracker) Error(msg string) {
	t.Notifier.Error(msg)
	t.mu.Lock()
	t.lastError = msg
	t.mu.Unlock()
}

// failure returns the last reported error, if any.
func (t *tracker) failure() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastError == "" {
		return nil
	}
	return withCode(exitAPI, errors.New(t.lastError))
}

// outcome is failure, or errDeclined when nothing succeeded either.
func (t *tracker) outcome() error {
	if err := t.failure(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.successes == 0 {
		return withCode(exitDeclined, errDeclined)
	}
	return nil
}

package main

import (
	"errors"
	"net/http"

	"github.com/iota-uz/crudkit/pkg/crud"
	"github.com/iota-uz/crudkit/pkg/restclient"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitFailure    = 1
	exitValidation = 2
	exitUsage      = 3
	exitAPI        = 4
	exitNotFound   = 5
	exitDeclined   = 6
)

var errDeclined = errors.New("cancelled")

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitFailure
}

// apiFailure classifies an error returned by a screen or the REST client.
func apiFailure(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, crud.ErrValidation), restclient.IsStatus(err, http.StatusUnprocessableEntity):
		return withCode(exitValidation, err)
	case restclient.IsStatus(err, http.StatusNotFound):
		return withCode(exitNotFound, err)
	default:
		return withCode(exitAPI, err)
	}
}

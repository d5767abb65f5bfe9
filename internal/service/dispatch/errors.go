package dispatch

import "errors"

var (
	ErrPersist = errors.New("lead could not be stored")
	ErrNotify  = errors.New("operator notification failed")
	ErrNoSink  = errors.New("no lead sink configured")
)

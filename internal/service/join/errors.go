package join

import "errors"

var (
	ErrInvalid  = errors.New("invalid join request")
	ErrDispatch = errors.New("join request could not be delivered")
)

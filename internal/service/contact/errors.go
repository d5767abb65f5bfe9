package contact

import "errors"

var (
	ErrInvalid  = errors.New("invalid contact submission")
	ErrDispatch = errors.New("contact submission could not be delivered")
)

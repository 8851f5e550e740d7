package exchange

import (
	"errors"
)

var (
	ErrNoTickets = errors.New("no tickets")
)

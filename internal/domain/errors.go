package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrOwnerConflict    = errors.New("owner conflict")

	// Ошибки машины состояний ордеров.
	ErrOrderNotAvailable    = errors.New("order not available")
	ErrSelfJoin             = errors.New("cannot join own order")
	ErrConfirmationExpired  = errors.New("confirmation deadline expired")
	ErrReliabilityTooLow    = errors.New("reliability too low")
	ErrUnknownChipType      = errors.New("unknown chip type")
	ErrGamesPlannedOutRange = errors.New("games planned out of range")

	// Ошибки оркестратора раундов.
	ErrAlreadySubmitted = errors.New("number already submitted")
	ErrRoundExpired     = errors.New("round deadline expired")
	ErrRoundMismatch    = errors.New("round index is not current")
	ErrNotParticipant   = errors.New("not a match participant")
	ErrMatchFinished    = errors.New("match already finished")
	ErrNumberOutRange   = errors.New("number out of range")
)

type DuplicateTicketError struct {
	Ticket *DepositTicket
}

func NewDuplicateTicketError(ticket *DepositTicket) error {
	return &DuplicateTicketError{Ticket: ticket}
}

func (e *DuplicateTicketError) Error() string {
	return fmt.Sprintf(
		"deposit ticket with code %s already exists for user with id %d",
		e.Ticket.Code,
		e.Ticket.UserID,
	)
}

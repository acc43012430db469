package domain

import (
	"fmt"

	"github.com/Domenick1991/travelease/internal/apperr"
)

var (
	ErrAlreadyCancelled = fmt.Errorf("%w: booking already cancelled", apperr.ErrConflict)
	ErrNotEnoughSeats   = fmt.Errorf("%w: not enough seats available", apperr.ErrConflict)
	ErrEmailTaken       = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
)

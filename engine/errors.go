package engine

import "errors"

// Rule errors returned by the dispatcher. Callers match them with errors.Is.
var (
	ErrGameOver      = errors.New("game is already over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrCardNotInHand = errors.New("card not in hand")
	ErrIllegalMove   = errors.New("card cannot be played on the card in play")
	ErrSuitRequired  = errors.New("an ace needs a suit choice")
	ErrAlreadyDrew   = errors.New("already drew this turn")
	ErrMustPlayDrawn = errors.New("only the drawn card may be played")
	ErrNothingToPass = errors.New("nothing to pass: draw first")
	ErrDeckExhausted = errors.New("deck exhausted even after recycling")
	ErrBadSeat       = errors.New("seat out of range")
)

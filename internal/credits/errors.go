package credits

import "errors"

// ErrInsufficient indicates the capability has no remaining credit.
var ErrInsufficient = errors.New("insufficient credits")

// ErrConflict indicates a compare-and-set lost too many races in a row.
var ErrConflict = errors.New("credit update conflict")

package derive

import "errors"

// ErrInvalidBirthdate means a roster row reached derivation with a birthdate
// that does not parse. Overrides are expected to have removed such rows, so
// hitting it is a data-integrity failure.
var ErrInvalidBirthdate = errors.New("invalid birthdate")

package tally

import "strconv"

// SyntaxError is an error indicating input that does not match the
// grammar. It implements InputError.
type SyntaxError struct {
	// Col is the position of the token that did not match.
	Col int
	// Want describes what the parser expected, if anything specific.
	Want string
	// Found describes the token that was found.
	Found string
}

func (err *SyntaxError) Error() string {
	if err.Want == "" {
		return errpos(err.Col, "unexpected "+err.Found)
	}
	return errpos(err.Col, "expected "+err.Want+", found "+err.Found)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to
	// and including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*LexError)(nil)
)

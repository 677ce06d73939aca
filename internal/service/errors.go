package service

import "errors"

// Validation messages returned to the form.
const (
	MsgRequiredFields = "Todos os campos obrigatórios devem ser preenchidos"
	MsgOtherNiche     = "Especifique o outro nicho"
)

// ErrEntryNotFound is returned by Resend when no stored entry has the email.
var ErrEntryNotFound = errors.New("entry not found")

// ValidationError is a rejected registration. Nothing is stored when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

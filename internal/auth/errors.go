package auth

import (
	"errors"
	"strings"

	goValidator "github.com/go-playground/validator/v10"
)

// ValidationError reports malformed sign-up input with a readable message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	var verrs goValidator.ValidationErrors
	if !errors.As(e.Err, &verrs) {
		return e.Err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Email":
			msgs = append(msgs, "email address is invalid")
		case "Password":
			msgs = append(msgs, "password should be between 6 and 72 characters")
		default:
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

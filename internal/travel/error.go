package travel

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("illegal booking status transition")
	ErrNextID            = errors.New("get next id from generator")
)

// InputError collects per-field input-contract violations so callers can show
// every problem at once instead of the first one found.
type InputError struct {
	fields map[string][]string
}

func NewInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) AddError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) FieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

// ErrOrNil returns the error when at least one violation was recorded, so
// validators can build unconditionally and return in one step.
func (ie *InputError) ErrOrNil() error {
	if ie.FieldsCount() > 0 {
		return ie
	}

	return nil
}

package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vocabnest/vocabnest/logger"
)

// NewError formats its operands like fmt.Println.
func NewError(a ...any) error {
	msg := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
	return errors.New(msg)
}

// Combine joins the non-nil errors, returning nil when there are none.
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}

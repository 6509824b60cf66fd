package filter

import "logoobjects/internal/core/apperror"

func invalidOperator(field, op string) error {
	return apperror.NewInvalidOperator(field, op)
}

func invalidOption(option, message string) error {
	return apperror.NewInvalidQueryOption(option, message)
}

package models

import (
	"errors"
	"fmt"
)

//go:generate go run ../../cmd/errorgen -root ../..

type (
	MapErrs     map[string]ErrorDetail
	ErrorDetail struct {
		Code         string `json:"code,omitempty"`
		ErrorMessage error  `json:"message,omitempty"`
	}
)

func (e ErrorDetail) Error() string {
	return fmt.Sprintf("code: %s, message: %v", e.Code, e.ErrorMessage)
}

func (e ErrorDetail) Unwrap() error {
	return e.ErrorMessage
}

// GetErrMap looks up a generated error. The optional argument is appended as the cause.
func GetErrMap(key string, args ...string) ErrorDetail {
	v, ok := MapErrors[key]
	if !ok {
		return ErrorDetail{
			Code:         key,
			ErrorMessage: errors.New("unknown error mapping"),
		}
	}
	if len(args) > 0 {
		v.ErrorMessage = fmt.Errorf("%w caused by %s", v.ErrorMessage, args[0])
	}

	return v
}

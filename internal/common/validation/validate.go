package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/agencyhq/go-agency-ledger/internal/models"
)

const unknownCode = "UNKNOW"

// ErrorValidateResponse is one failed rule, reported with its generated error code.
type ErrorValidateResponse struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ErrorValidateResponse) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerDecimalGreaterThan(v)
	registerMoneyScale(v)

	return v
}

// ValidateStruct returns a *multierror.Error of ErrorValidateResponse, or nil.
func ValidateStruct(toValidate any) error {
	err := validate.Struct(toValidate)
	if err == nil {
		return nil
	}

	var errs *multierror.Error

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		errs = multierror.Append(errs, ErrorValidateResponse{Code: unknownCode, Message: err.Error()})
		return errs.ErrorOrNil()
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		for _, valErr := range valErrs {
			errs = multierror.Append(errs, toResponse(valErr))
		}
	}

	return errs.ErrorOrNil()
}

// toResponse looks the rule up by namespace first, then by field name alone.
func toResponse(fe validator.FieldError) ErrorValidateResponse {
	for _, key := range []string{
		fmt.Sprintf("%s_%s", fe.Namespace(), fe.Tag()),
		fmt.Sprintf("%s_%s", fe.Field(), fe.Tag()),
	} {
		if data, ok := models.MapErrors[key]; ok {
			return ErrorValidateResponse{
				Code:    data.Code,
				Field:   fe.Field(),
				Message: data.ErrorMessage.Error(),
			}
		}
	}

	return ErrorValidateResponse{
		Code:    unknownCode,
		Field:   fe.Field(),
		Message: strings.TrimSpace(fmt.Sprintf("%s %s", fe.Tag(), fe.Param())),
	}
}

// registerDecimalGreaterThan validates decimal.Decimal fields, e.g. `decimalGreaterThan=0`.
func registerDecimalGreaterThan(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimalGreaterThan", func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return false
		}
		limit, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return value.GreaterThan(limit)
	})
}

// registerMoneyScale rejects decimals with more digits than models.MoneyScale, e.g. "0.004".
func registerMoneyScale(v *validator.Validate) {
	_ = v.RegisterValidation("moneyScale", func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return false
		}
		return value.Equal(models.RoundMoney(value))
	})
}

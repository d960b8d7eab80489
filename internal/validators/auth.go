// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-forum/models"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// Tags registered on top of the go-playground baked-in set.
const (
	TagUsername = "username"
	TagNotBlank = "notblank"
)

// Field names accepted by [AuthValidator.Validate] for partial validation.
// They are Go struct field names of the request models.
const (
	FieldUsername     = "Username"
	FieldEmail        = "Email"
	FieldPassword     = "Password"
	FieldIdentifier   = "Identifier"
	FieldRefreshToken = "RefreshToken"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)

// AuthValidator checks the request models of the authentication endpoints:
// RegisterRequest, LoginRequest and RefreshRequest, in value or pointer form.
type AuthValidator struct {
	validate *validator.Validate
}

// NewAuthValidator builds an [AuthValidator] with the forum tags registered.
func NewAuthValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(jsonFieldName)
	// registration only fails for an empty tag or a nil func
	_ = v.RegisterValidation(TagUsername, isUsername)
	_ = v.RegisterValidation(TagNotBlank, nonstandard.NotBlank)

	return &AuthValidator{validate: v}
}

// Validate checks obj against its struct tags. When fields are given only
// those fields are checked. Rule violations are returned as *[ValidationError].
func (a *AuthValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return a.validateStruct(ctx, &value, fields...)
	case *models.RegisterRequest:
		return a.validateStruct(ctx, value, fields...)

	case models.LoginRequest:
		return a.validateStruct(ctx, &value, fields...)
	case *models.LoginRequest:
		return a.validateStruct(ctx, value, fields...)

	case models.RefreshRequest:
		return a.validateStruct(ctx, &value, fields...)
	case *models.RefreshRequest:
		return a.validateStruct(ctx, value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (a *AuthValidator) validateStruct(ctx context.Context, obj any, fields ...string) error {
	if reflect.ValueOf(obj).IsNil() {
		return ErrUnsupportedType
	}

	var err error
	if len(fields) == 0 {
		err = a.validate.StructCtx(ctx, obj)
	} else {
		if err = checkFields(obj, fields); err != nil {
			return err
		}
		err = a.validate.StructPartialCtx(ctx, obj, fields...)
	}
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return fmt.Errorf("error validating %T: %w", obj, err)
	}

	result := &ValidationError{Fields: make(map[string]string, len(violations))}
	for _, violation := range violations {
		if _, seen := result.Fields[violation.Field()]; seen {
			continue
		}
		result.Fields[violation.Field()] = message(violation)
	}

	return result
}

// checkFields rejects names that are not fields of obj; the partial
// validation of go-playground silently ignores them.
func checkFields(obj any, fields []string) error {
	typ := reflect.TypeOf(obj).Elem()
	for _, name := range fields {
		if _, ok := typ.FieldByName(name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}

	return nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case TagNotBlank:
		return "must not be blank"
	case TagUsername:
		return "must be 3 to 30 letters, digits or underscores"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	default:
		return "is invalid"
	}
}

func isUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}

	return name
}

package models

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	apperrors "foxnut/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate 写入前校验实体字段
// oneof 失败返回 ErrInvalidEnumValue，引用字段（*UUID）为空返回 ErrMissingRequiredReference
func Validate(v interface{}) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch {
	case fe.Tag() == "oneof":
		return fmt.Errorf("%w: %s=%v (allowed: %s)", apperrors.ErrInvalidEnumValue, fe.Namespace(), fe.Value(), fe.Param())
	case fe.Tag() == "required" && strings.HasSuffix(fe.Field(), "UUID"):
		return fmt.Errorf("%w: %s", apperrors.ErrMissingRequiredReference, fe.Namespace())
	default:
		return fmt.Errorf("%w: %s failed on %s", apperrors.ErrInvalidField, fe.Namespace(), fe.Tag())
	}
}

package handler

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validator adapts go-playground/validator to echo.Validator and adds the
// "slug" tag: lower-case ASCII words joined by single hyphens.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate returns a 400 echo.HTTPError naming the first failing field.
func (cv *Validator) Validate(i any) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		fe := ve[0]
		return echo.NewHTTPError(http.StatusBadRequest, fe.Field()+" failed "+fe.Tag()+" validation")
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

// bindValid binds the request body into dst and validates it. When ok is
// false the error response has already been written.
func bindValid(c echo.Context, dst any) (ok bool, err error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return validateOnly(c, dst)
}

func validateOnly(c echo.Context, dst any) (bool, error) {
	if err := c.Validate(dst); err != nil {
		msg := "invalid body"
		if he, ok := err.(*echo.HTTPError); ok {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	return true, nil
}

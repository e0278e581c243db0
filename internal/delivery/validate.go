package delivery

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	emailRe    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	validRoles = []string{"заказчик", "гип", "инженер", "наблюдатель"}
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("kpdemail", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})

	return v
}

// validationMessage превращает первую ошибку валидатора в текст для клиента.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: field required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s: Text must not be empty", fe.Field())
	case "kpdemail":
		return fmt.Sprintf("%s: Invalid email format", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s: Role must be one of: %s", fe.Field(), strings.Join(validRoles, ", "))
	}
	return fmt.Sprintf("%s: invalid value", fe.Field())
}

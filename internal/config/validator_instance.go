package config

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/tessera/internal/ui"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern         = regexp.MustCompile(`^\d+\.\d+\.\d+(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	definitionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_./ -]*$`)
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("definition_name", func(fl validator.FieldLevel) bool {
			return definitionNamePattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
			return ui.Kind(fl.Field().String()).Valid()
		})

		validateInst = v
	})

	return validateInst
}

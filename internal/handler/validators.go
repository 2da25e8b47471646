package handler

import (
	"errors"
	"fmt"
	"sync"

	"gptading/backend/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request models.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not validator/v10")
			return
		}
		if err := v.RegisterValidation("strategy", validateStrategy); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("risk", validateRisk)
	})
	return registerErr
}

func validateStrategy(fl validator.FieldLevel) bool {
	_, ok := model.LookupStrategy(fl.Field().String())
	return ok
}

func validateRisk(fl validator.FieldLevel) bool {
	return model.Risk(fl.Field().String()).Valid()
}

// validationDetails turns binding errors into field -> rule pairs
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			details[fe.Field()] = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
			continue
		}
		details[fe.Field()] = fe.Tag()
	}
	return details
}

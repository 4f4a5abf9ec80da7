package supplychain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or a nil function.
	err := v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return Stage(fl.Field().String()).Index() >= 0
	})
	if err != nil {
		panic(err)
	}
	return v
}

func (r *Registry) validateCreate(req CreateRequest) (CreateRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Manufacturer = strings.TrimSpace(req.Manufacturer)
	req.Type = strings.TrimSpace(req.Type)
	err := r.validate.Struct(req)
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}

func (r *Registry) validateProcess(req ProcessRequest) (ProcessRequest, error) {
	req.Entity = strings.TrimSpace(req.Entity)
	req.Stage = strings.ToLower(strings.TrimSpace(req.Stage))
	err := r.validate.Struct(req)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "stage" {
				return req, fmt.Errorf("%w: %q", ErrUnknownStage, req.Stage)
			}
		}
	}
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}

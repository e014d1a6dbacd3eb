package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metrixmedia/backend/internal/model"
)

// ValidationError lists every field of a contact payload that failed
// validation.
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid contact submission: " + strings.Join(names, ", ")
}

// contactInput carries the validation rules. Field order is the order errors
// are reported in.
type contactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contains=@"`
	Company string `json:"company"`
	Message string `json:"message" validate:"required,min=5"`
	Website string `json:"website"`
}

var contactFields = []string{"name", "email", "company", "message", "website"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateContact checks a decoded JSON object and returns the trimmed draft.
// JSON null is treated like an absent field.
func ValidateContact(payload map[string]any) (model.ContactDraft, error) {
	values := make(map[string]string, len(contactFields))
	typeErrors := make(map[string]model.FieldError)
	for _, field := range contactFields {
		raw, ok := payload[field]
		if !ok || raw == nil {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			typeErrors[field] = model.FieldError{Field: field, Message: fmt.Sprintf("%s must be a string", field)}
			continue
		}
		values[field] = strings.TrimSpace(s)
	}

	in := contactInput{
		Name:    values["name"],
		Email:   values["email"],
		Company: values["company"],
		Message: values["message"],
		Website: values["website"],
	}

	ruleErrors := make(map[string]model.FieldError)
	if err := validate.Struct(in); err != nil {
		for _, fe := range FormatValidationErrors(err) {
			if _, seen := ruleErrors[fe.Field]; !seen {
				ruleErrors[fe.Field] = fe
			}
		}
	}

	var fields []model.FieldError
	for _, field := range contactFields {
		if fe, ok := typeErrors[field]; ok {
			fields = append(fields, fe)
		} else if fe, ok := ruleErrors[field]; ok {
			fields = append(fields, fe)
		}
	}
	if len(fields) > 0 {
		return model.ContactDraft{}, &ValidationError{Fields: fields}
	}

	return model.ContactDraft{
		Name:    in.Name,
		Email:   in.Email,
		Company: in.Company,
		Message: in.Message,
		Website: in.Website,
	}, nil
}

// FormatValidationErrors turns validator errors into user-facing field errors.
func FormatValidationErrors(err error) []model.FieldError {
	var out []model.FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Field() + "." + fieldError.Tag() {
			case "name.required":
				message = "Name is required"
			case "email.required", "email.contains":
				message = "Valid email is required"
			case "message.required", "message.min":
				message = "Message must be at least 5 characters"
			default:
				message = fieldError.Field() + " is invalid"
			}

			out = append(out, model.FieldError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return out
}

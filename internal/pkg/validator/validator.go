package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	registerCustomValidations()
}

func registerCustomValidations() {
	// Rule type validation
	validate.RegisterValidation("rule_type", func(fl validator.FieldLevel) bool {
		ruleType := fl.Field().String()
		validTypes := []string{"keyword", "regex", "url"}
		for _, t := range validTypes {
			if ruleType == t {
				return true
			}
		}
		return false
	})

	// Rule action validation
	validate.RegisterValidation("rule_action", func(fl validator.FieldLevel) bool {
		action := fl.Field().String()
		validActions := []string{"block", "queue", "pass"}
		for _, a := range validActions {
			if action == a {
				return true
			}
		}
		return false
	})

	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"member", "restricted", "reviewer", "admin"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "oneof":
			errors[field] = "Must be one of: " + err.Param()
		case "rule_type":
			errors[field] = "Invalid rule type. Must be: keyword, regex, or url"
		case "rule_action":
			errors[field] = "Invalid rule action. Must be: block, queue, or pass"
		case "role":
			errors[field] = "Invalid role. Must be: member, restricted, reviewer, or admin"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

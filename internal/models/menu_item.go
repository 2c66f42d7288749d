package models

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationErrorPrefix starts every message produced while constructing a MenuItem.
const ValidationErrorPrefix = "MenuItem constructor error"

// MenuItem represents a single dish on the restaurant menu.
// ID is the three-digit business key, not the store's own identity.
type MenuItem struct {
	ID          int     `json:"id" bson:"id"`
	Category    string  `json:"category" bson:"category"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Vegetarian  bool    `json:"vegetarian" bson:"vegetarian"`
}

// MenuItemFields holds raw menu item values as they arrive in a request body.
// Every field is optional so that missing values can be reported by name.
// Tag order follows field order: the first failing field is the one reported.
type MenuItemFields struct {
	ID          *int     `json:"id" validate:"required,min=100,max=999"`
	Category    *string  `json:"category" validate:"required,len=3"`
	Description *string  `json:"description" validate:"required,min=1"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Vegetarian  any      `json:"vegetarian"`
}

// ValidationError reports the first constraint a menu item violated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ValidationErrorPrefix, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ValidationErrorPrefix, e.Field, e.Reason)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match what clients send.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewMenuItem constructs a validated MenuItem.
func NewMenuItem(id int, category, description string, price float64, vegetarian bool) (*MenuItem, error) {
	return MenuItemFields{
		ID:          &id,
		Category:    &category,
		Description: &description,
		Price:       &price,
		Vegetarian:  vegetarian,
	}.Build()
}

// InvalidFields wraps a decoding failure (malformed JSON, wrong field types)
// into the same error family as constraint violations.
func InvalidFields(err error) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf("invalid field values: %v", err)}
}

// Build validates the raw values and returns the resulting MenuItem.
// No partial item is returned on failure.
func (f MenuItemFields) Build() (*MenuItem, error) {
	if err := validate.Struct(f); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return nil, fieldError(verrs[0])
		}
		return nil, &ValidationError{Reason: err.Error()}
	}

	return &MenuItem{
		ID:          *f.ID,
		Category:    *f.Category,
		Description: *f.Description,
		Price:       *f.Price,
		Vegetarian:  truthy(f.Vegetarian),
	}, nil
}

var rangeMessages = map[string]string{
	"id":          "must be a three-digit number between 100 and 999",
	"description": "must not be empty",
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Field()
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min", "max":
		if msg, ok := rangeMessages[field]; ok {
			reason = msg
		} else {
			reason = fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
	case "len":
		reason = fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gte":
		reason = fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		reason = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
	return &ValidationError{Field: field, Reason: reason}
}

// truthy coerces a decoded JSON value to a boolean. It never fails.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case string:
		return t != "" && t != "false" && t != "0"
	default:
		return true
	}
}

package model

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Field names used as keys of validation errors. They match the JSON payload.
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldSaleStart   = "sale_start"
	FieldSaleEnd     = "sale_end"
	FieldPhoto       = "photo"
	FieldWarranty    = "warranty"
	FieldQuantity    = "quantity"
	FieldNonField    = "non_field_errors"
)

// Validation messages.
const (
	MsgRequired          = "This field is required."
	MsgBlank             = "This field may not be blank."
	MsgNull              = "This field may not be null."
	MsgInvalidNumber     = "A valid number is required."
	MsgMaxDecimalPlaces  = "Ensure that there are no more than 2 decimal places."
	MsgPriceNotNumber    = "Price: a valid number is required."
	MsgPriceNotPositive  = "Price must be above $0."
	MsgSaleTimeFormat    = "Datetime has wrong format. Use one of these formats instead: hh:mm [AM|PM] DD [January-December] YYYY."
	MsgInvalidImage      = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgWarrantyNotText   = "The warranty file must be UTF-8 encoded text."
	MsgEmptyUpload       = "The submitted file is empty."
	priceDecimalPlaces   = 2
	nameTag              = "required,max=200"
	descriptionTag       = "required,min=2,max=200"
	msgStringMinTemplate = "Ensure this field has at least %s characters."
	msgStringMaxTemplate = "Ensure this field has no more than %s characters."
	msgValueMinTemplate  = "Ensure this value is greater than or equal to %s."
	msgValueMaxTemplate  = "Ensure this value is less than or equal to %s."
)

var (
	// MinPrice and MaxPrice bound Product.Price inclusively.
	MinPrice = decimal.RequireFromString("1.00")
	MaxPrice = decimal.RequireFromString("100000.00")

	validate = validator.New()
)

// ValidationError collects field-keyed validation messages.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError creates a ValidationError holding a single message.
func NewValidationError(field, msg string) *ValidationError {
	errs := &ValidationError{}
	errs.Add(field, msg)
	return errs
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors reports whether any message was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e when it holds messages and nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ValidateName checks a product name and returns it with surrounding whitespace removed.
func ValidateName(errs *ValidationError, name string) string {
	name = strings.TrimSpace(name)
	checkVar(errs, FieldName, name, nameTag)
	return name
}

// ValidateDescription checks a product description as submitted (before any warranty merge).
// Length limits apply to the trimmed value, which is returned.
func ValidateDescription(errs *ValidationError, description string) string {
	description = strings.TrimSpace(description)
	checkVar(errs, FieldDescription, description, descriptionTag)
	return description
}

// CheckPriceIsPositive is the create-time pre-check on the raw price value.
func CheckPriceIsPositive(raw string) error {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return NewValidationError(FieldPrice, MsgPriceNotNumber)
	}
	if price <= 0 {
		return NewValidationError(FieldPrice, MsgPriceNotPositive)
	}
	return nil
}

// ParsePrice parses and range-checks a price. Messages are recorded in errs.
func ParsePrice(errs *ValidationError, raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		errs.Add(FieldPrice, MsgInvalidNumber)
		return decimal.Zero, false
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		errs.Add(FieldPrice, MsgInvalidNumber)
		return decimal.Zero, false
	}

	ok := true
	if price.Exponent() < -priceDecimalPlaces {
		errs.Add(FieldPrice, MsgMaxDecimalPlaces)
		ok = false
	}
	if price.LessThan(MinPrice) {
		errs.Add(FieldPrice, fmt.Sprintf(msgValueMinTemplate, MinPrice.StringFixed(priceDecimalPlaces)))
		ok = false
	}
	if price.GreaterThan(MaxPrice) {
		errs.Add(FieldPrice, fmt.Sprintf(msgValueMaxTemplate, MaxPrice.StringFixed(priceDecimalPlaces)))
		ok = false
	}
	if !ok {
		return decimal.Zero, false
	}
	return price.Round(priceDecimalPlaces), true
}

// ParseSaleBound parses a nullable sale bound. An empty value means "no bound".
func ParseSaleBound(errs *ValidationError, field, raw string) (*time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, true
	}
	t, err := ParseSaleTime(raw)
	if err != nil {
		errs.Add(field, MsgSaleTimeFormat)
		return nil, false
	}
	return &t, true
}

// FormatPrice renders a price with exactly two decimal places.
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(priceDecimalPlaces)
}

func checkVar(errs *ValidationError, field string, value any, tag string) {
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add(field, err.Error())
		return
	}
	for _, fe := range fieldErrs {
		errs.Add(field, messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return MsgBlank
	case "min":
		if isString {
			return fmt.Sprintf(msgStringMinTemplate, fe.Param())
		}
		return fmt.Sprintf(msgValueMinTemplate, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf(msgStringMaxTemplate, fe.Param())
		}
		return fmt.Sprintf(msgValueMaxTemplate, fe.Param())
	default:
		return fe.Error()
	}
}

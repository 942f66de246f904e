package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/helpers"
)

// Bounds of a NUMERIC(10,2) column that must be positive.
const (
	minDecimal2 = 0.01
	maxDecimal2 = 99999999.99
)

var (
	initOnce sync.Once

	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the domain enums and the calendar date format.
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("croptype", func(fl validator.FieldLevel) bool {
			return entity.CropType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("cropstatus", func(fl validator.FieldLevel) bool {
			return entity.CropStatus(fl.Field().String()).Valid()
		})
		// An empty date is valid and clears the field.
		_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			_, err := time.Parse(helpers.DateLayout, s)
			return err == nil
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("decimal2", func(fl validator.FieldLevel) bool {
			return IsDecimal2(fl.Field().Float())
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// IsDecimal2 reports whether f fits a positive NUMERIC(10,2) without rounding.
func IsDecimal2(f float64) bool {
	if math.IsNaN(f) || f < minDecimal2 || f > maxDecimal2 {
		return false
	}
	cents := f * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

// Struct validates s with the same engine Gin binding uses, so services and
// handlers agree on the rules.
func Struct(s any) error {
	Init()
	return binding.Validator.ValidateStruct(s)
}

// Var validates a single value against tag.
func Var(field any, tag string) error {
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.Var(field, tag)
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return map[string]string{ute.Field: "has an invalid type"}
	}
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required", "notblank":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "croptype":
		return "must be one of: " + joinCropTypes()
	case "cropstatus":
		return "must be one of: " + joinCropStatuses()
	case "date":
		return "must be a date in YYYY-MM-DD format"
	case "decimal2":
		return "must be between 0.01 and 99999999.99 with at most 2 decimal places"
	case "username":
		return "may contain only letters, numbers, and @/./+/-/_ characters"
	case "eqfield":
		return "must match " + param
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "e164":
		return "must be a valid phone number"
	}
	if param != "" {
		return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
	}
	return fmt.Sprintf("validation failed for '%s'", tag)
}

func joinCropTypes() string {
	out := make([]string, 0, len(entity.CropTypes))
	for _, t := range entity.CropTypes {
		out = append(out, string(t))
	}
	return strings.Join(out, ", ")
}

func joinCropStatuses() string {
	out := make([]string, 0, len(entity.CropStatuses))
	for _, s := range entity.CropStatuses {
		out = append(out, string(s))
	}
	return strings.Join(out, ", ")
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

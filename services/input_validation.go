package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is matched by every *ValidationError via errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError reports every field that failed validation, keyed by the
// JSON path of the field (e.g. "areas[0].squareFootage").
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator, configured to report JSON field names.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
			switch fl.Field().Kind() {
			case reflect.Float32, reflect.Float64:
				return isFinite(fl.Field().Float())
			}
			return true
		})
	})
	return validate
}

// isFinite reports whether v is neither NaN nor an infinity. Decimal
// arithmetic panics on non-finite values, so they are rejected at the boundary.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// collectStructErrors runs tag validation on v and records failures into verr.
func collectStructErrors(v any, verr *ValidationError) {
	err := structValidator().Struct(v)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("_", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "finite":
		return fmt.Sprintf("%s must be a finite number", fe.Field())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// ValidatedArea is an AreaInput whose sub-scopes have been resolved into
// options and whose required scalars are known to be present.
type ValidatedArea struct {
	AreaInput
	SquareFeet float64
	Structural ScopeOption
	MEPF       ScopeOption
	ACT        ScopeOption
	BelowFloor ScopeOption
}

// ValidateProjectInput checks a project for missing scalars, unknown enum
// values and malformed sub-scopes. It never substitutes defaults for missing
// sizes: a missing square footage is an error, not a zero-cost line.
func ValidateProjectInput(in ProjectInput) ([]ValidatedArea, error) {
	verr := &ValidationError{}
	collectStructErrors(in, verr)

	if in.LandscapeMode.Enabled() {
		if in.LandscapeAcres == nil {
			verr.add("landscapeAcres", "landscapeAcres is required when landscape modeling is enabled")
		}
		if in.LandscapeTerrain == "" {
			verr.add("landscapeTerrain", "landscapeTerrain is required when landscape modeling is enabled")
		}
	}

	seen := make(map[string]int, len(in.Areas))
	areas := make([]ValidatedArea, 0, len(in.Areas))
	for i, a := range in.Areas {
		prefix := fmt.Sprintf("areas[%d]", i)
		if a.ID != "" {
			if j, dup := seen[a.ID]; dup {
				verr.add(prefix+".id", fmt.Sprintf("id %q duplicates areas[%d]", a.ID, j))
			}
			seen[a.ID] = i
		}

		va := ValidatedArea{AreaInput: a}
		if a.SquareFootage != nil {
			va.SquareFeet = *a.SquareFootage
		}
		va.Structural = resolveSubScope(a.Structural, prefix+".structural", verr)
		va.MEPF = resolveSubScope(a.MEPF, prefix+".mepf", verr)
		va.ACT = resolveSubScope(a.ACT, prefix+".act", verr)
		va.BelowFloor = resolveSubScope(a.BelowFloor, prefix+".belowFloor", verr)
		areas = append(areas, va)
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return areas, nil
}

// resolveSubScope turns the raw sub-scope shape into an option.
// Absent and explicitly disabled both mean None; anything else must be well formed.
func resolveSubScope(raw *SubScopeInput, field string, verr *ValidationError) ScopeOption {
	if raw == nil {
		return None()
	}
	if raw.Enabled == nil {
		verr.add(field+".enabled", "enabled is required when the sub-scope is present")
		return None()
	}
	if !*raw.Enabled {
		return None()
	}
	if raw.SquareFootage == nil {
		verr.add(field+".squareFootage", "squareFootage is required when the sub-scope is enabled")
		return None()
	}
	if !isFinite(*raw.SquareFootage) {
		verr.add(field+".squareFootage", "squareFootage must be a finite number")
		return None()
	}
	if *raw.SquareFootage <= 0 {
		verr.add(field+".squareFootage", "squareFootage must be greater than 0")
		return None()
	}
	return Some(*raw.SquareFootage)
}

// ValidateLineItems checks caller-edited line items before they replace a
// quote's stored items: ids must be present and unique, categories known,
// and quantities and money values finite and non-negative.
func ValidateLineItems(items []LineItemShell) error {
	verr := &ValidationError{}
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		prefix := fmt.Sprintf("lineItems[%d]", i)
		switch {
		case strings.TrimSpace(it.ID) == "":
			verr.add(prefix+".id", "is required")
		case seen[it.ID]:
			verr.add(prefix+".id", fmt.Sprintf("duplicate line item id %q", it.ID))
		}
		seen[it.ID] = true

		if !it.Category.Valid() {
			verr.add(prefix+".category", fmt.Sprintf("unknown category %q", it.Category))
		}
		checkAmount(verr, prefix+".quantity", &it.Quantity)
		checkAmount(verr, prefix+".cost", it.Cost)
		checkAmount(verr, prefix+".price", it.Price)
	}
	return verr.orNil()
}

// checkAmount records an error when a set value is non-finite or negative.
func checkAmount(verr *ValidationError, field string, v *float64) {
	switch {
	case v == nil:
	case !isFinite(*v):
		verr.add(field, "must be a finite number")
	case *v < 0:
		verr.add(field, "must be zero or greater")
	}
}

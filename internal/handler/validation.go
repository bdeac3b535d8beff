package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aryan0dhankhar/rentalregistry/internal/domain"
)

// Validator checks records before they reach the registry. Date rules are
// evaluated against the injected clock.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// ValidationError lists the offending fields by their JSON names
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// NewValidator creates a validator. A nil clock means time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(), now: now}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.validate.RegisterStructValidationMapRules(map[string]string{
		"Name":             "required",
		"Address":          "required",
		"City":             "required",
		"PostalCode":       "required",
		"ConstructionYear": "omitempty,min=1800",
		"TotalApartments":  "min=1",
	}, domain.Property{})
	v.validate.RegisterStructValidationMapRules(map[string]string{
		"PropertyID": "required",
		"Number":     "required",
		"Floor":      "min=0",
		"Size":       "gt=0",
		"Rooms":      "min=1",
		"Bathrooms":  "min=1",
		"Price":      "gt=0",
	}, domain.Apartment{})
	v.validate.RegisterStructValidationMapRules(map[string]string{
		"FirstName": "required",
		"LastName":  "required",
		"Email":     "required,email",
		"Phone":     "required",
	}, domain.Tenant{})
	v.validate.RegisterStructValidationMapRules(map[string]string{
		"ApartmentID": "required",
		"TenantID":    "required",
		"RentalPrice": "gt=0",
		"Deposit":     "min=0",
	}, domain.Contract{})

	v.validate.RegisterStructValidation(v.propertyRules, domain.Property{})
	v.validate.RegisterStructValidation(v.tenantRules, domain.Tenant{})
	v.validate.RegisterStructValidation(v.contractRules, domain.Contract{})
	return v
}

func (v *Validator) propertyRules(sl validator.StructLevel) {
	p := sl.Current().Interface().(domain.Property)
	if p.ConstructionYear != nil && *p.ConstructionYear > v.now().Year() {
		sl.ReportError(p.ConstructionYear, "constructionYear", "ConstructionYear", "notfuture", "")
	}
}

func (v *Validator) tenantRules(sl validator.StructLevel) {
	t := sl.Current().Interface().(domain.Tenant)
	if t.DateOfBirth != nil && t.DateOfBirth.After(domain.DateOf(v.now())) {
		sl.ReportError(t.DateOfBirth, "dateOfBirth", "DateOfBirth", "notfuture", "")
	}
}

func (v *Validator) contractRules(sl validator.StructLevel) {
	c := sl.Current().Interface().(domain.Contract)
	if c.StartDate.IsZero() {
		sl.ReportError(c.StartDate, "startDate", "StartDate", "required", "")
		return
	}
	if c.EndDate != nil && !c.EndDate.After(c.StartDate) {
		sl.ReportError(c.EndDate, "endDate", "EndDate", "gtfield", "startDate")
	}
}

// Struct validates one of the domain records.
func (v *Validator) Struct(record any) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = describe(fe)
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gtfield":
		return "must be after " + fe.Param()
	case "notfuture":
		return "must not be in the future"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

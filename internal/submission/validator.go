package submission

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"github.com/llante/llante_site/internal/locale"
)

// ErrInvalid is matched by every *ValidationError.
var ErrInvalid = errors.New("submission: invalid")

// FieldError names one failed constraint.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// ValidationError lists every failed constraint of one payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, f.Field+": "+f.Rule+"="+f.Param)
		} else {
			parts = append(parts, f.Field+": "+f.Rule)
		}
	}
	return "submission: invalid " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalid }

// Has reports whether field failed any constraint.
func (e *ValidationError) Has(field string) bool {
	return slices.ContainsFunc(e.Fields, func(f FieldError) bool { return f.Field == field })
}

// Rules holds the configurable parts of the form schemas.
type Rules struct {
	RequirePhone   bool
	RequireService bool
	Services       []string
	JoinOptions    []string
	// StrictPhone rejects phones that are not valid numbers for PhoneRegion.
	// Off by default: the field is free text and visitors write local forms.
	StrictPhone bool
	// PhoneRegion is used for numbers written without a country code.
	PhoneRegion string
}

// DefaultRules mirrors the shipped configuration.
func DefaultRules() Rules {
	return Rules{
		Services:    []string{"web", "branding", "product", "automation", "other"},
		JoinOptions: []string{"developer", "designer", "marketing", "sales", "other"},
		PhoneRegion: "AR",
	}
}

const (
	nameMax    = 120
	emailMax   = 254
	messageMax = 5000
	detailsMax = 2000
	phoneMax   = 40
	contactMax = 200
)

// Validator checks raw payloads. It is safe for concurrent use.
type Validator struct {
	v     *validator.Validate
	set   *locale.Set
	rules Rules
}

func NewValidator(set *locale.Set, rules Rules) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if rules.PhoneRegion == "" {
		rules.PhoneRegion = DefaultRules().PhoneRegion
	}
	rules.Services = slices.Clone(rules.Services)
	rules.JoinOptions = slices.Clone(rules.JoinOptions)

	val := &Validator{v: v, set: set, rules: rules}
	_ = v.RegisterValidation("phone", val.validatePhone)
	_ = v.RegisterValidation("service", val.validateService)
	_ = v.RegisterValidation("area", val.validateArea)
	return val
}

type check struct {
	field string
	value string
	tag   string
}

// ValidateContact runs every contact rule and reports all failures together.
func (v *Validator) ValidateContact(req ContactRequest) (Contact, error) {
	c := Contact{
		name:    strings.TrimSpace(req.Name),
		email:   strings.TrimSpace(req.Email),
		phone:   strings.TrimSpace(req.Phone),
		message: req.Message,
		service: strings.ToLower(strings.TrimSpace(req.Service)),
		locale:  v.set.OrDefault(req.Locale),
	}

	phoneTag := fmt.Sprintf("omitempty,max=%d", phoneMax)
	if v.rules.RequirePhone {
		phoneTag = fmt.Sprintf("required,max=%d", phoneMax)
	}
	if v.rules.StrictPhone {
		phoneTag += ",phone"
	}

	// Length counts the message as typed; a blank one is only "required".
	message := c.message
	if strings.TrimSpace(message) == "" {
		message = ""
	}
	serviceTag := "omitempty,service"
	if v.rules.RequireService {
		serviceTag = "required,service"
	}

	err := v.run([]check{
		{"name", c.name, fmt.Sprintf("required,min=2,max=%d", nameMax)},
		{"email", c.email, fmt.Sprintf("required,max=%d,email", emailMax)},
		{"phone", c.phone, phoneTag},
		{"message", message, fmt.Sprintf("required,min=5,max=%d", messageMax)},
		{"service", c.service, serviceTag},
	})
	if err != nil {
		return Contact{}, err
	}

	if c.phone != "" {
		c.phone = v.normalizePhone(c.phone)
	}
	c.email = strings.ToLower(c.email)
	return c, nil
}

// ValidateJoin runs every join rule and reports all failures together.
func (v *Validator) ValidateJoin(req JoinRequest) (Join, error) {
	j := Join{
		area:    strings.ToLower(strings.TrimSpace(req.Q1)),
		details: strings.TrimSpace(req.Q2),
		contact: strings.TrimSpace(req.Q3),
		locale:  v.set.OrDefault(req.Locale),
	}

	err := v.run([]check{
		{"q1", j.area, "required,area"},
		{"q2", j.details, fmt.Sprintf("max=%d", detailsMax)},
		{"q3", j.contact, fmt.Sprintf("required,max=%d", contactMax)},
	})
	if err != nil {
		return Join{}, err
	}
	return j, nil
}

func (v *Validator) run(checks []check) error {
	var fields []FieldError
	for _, c := range checks {
		err := v.v.Var(c.value, c.tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %s: %w", c.field, err)
		}
		// Var stops at the first failing tag, so each field reports once.
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: c.field, Rule: fe.Tag(), Param: fe.Param()})
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (v *Validator) parsePhone(raw string) (*phonenumbers.PhoneNumber, bool) {
	num, err := phonenumbers.Parse(raw, v.rules.PhoneRegion)
	if err != nil {
		return nil, false
	}
	return num, phonenumbers.IsValidNumber(num)
}

func (v *Validator) validatePhone(fl validator.FieldLevel) bool {
	_, ok := v.parsePhone(fl.Field().String())
	return ok
}

// normalizePhone formats raw as E.164 when its country is certain: always in
// strict mode, otherwise only when it was written with a "+" country code.
// Anything else is kept as typed.
func (v *Validator) normalizePhone(raw string) string {
	if !v.rules.StrictPhone && !strings.HasPrefix(raw, "+") {
		return raw
	}
	num, ok := v.parsePhone(raw)
	if !ok {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

func (v *Validator) validateService(fl validator.FieldLevel) bool {
	return slices.Contains(v.rules.Services, fl.Field().String())
}

func (v *Validator) validateArea(fl validator.FieldLevel) bool {
	return slices.Contains(v.rules.JoinOptions, fl.Field().String())
}

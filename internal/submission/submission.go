// Package submission turns raw form payloads into validated, immutable
// submissions ready for dispatch.
package submission

import (
	"strings"

	"github.com/llante/llante_site/internal/locale"
)

type Kind string

const (
	KindContact Kind = "contact"
	KindJoin    Kind = "join"
)

// ContactRequest is the raw contact form body. Website is the honeypot.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
	Service string `json:"service,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Website string `json:"website,omitempty"`
}

// JoinRequest is the raw "join us" form body. Company is the honeypot.
type JoinRequest struct {
	Q1      string `json:"q1"`
	Q2      string `json:"q2,omitempty"`
	Q3      string `json:"q3"`
	Locale  string `json:"locale,omitempty"`
	Company string `json:"company,omitempty"`
}

// Field is one labelled value, in form order.
type Field struct {
	Name  string
	Value string
}

// Submission is a validated form of either kind.
type Submission interface {
	Kind() Kind
	Locale() locale.Locale
	Fields() []Field
}

// Contact is a validated contact form. The zero value is not valid; obtain
// one from Validator.ValidateContact.
type Contact struct {
	name    string
	email   string
	phone   string
	message string
	service string
	locale  locale.Locale
}

func (c Contact) Kind() Kind            { return KindContact }
func (c Contact) Name() string          { return c.name }
func (c Contact) Email() string         { return c.email }
func (c Contact) Phone() string         { return c.phone }
func (c Contact) Message() string       { return c.message }
func (c Contact) Service() string       { return c.service }
func (c Contact) Locale() locale.Locale { return c.locale }

func (c Contact) Fields() []Field {
	fields := []Field{
		{Name: "name", Value: c.name},
		{Name: "email", Value: c.email},
	}
	if c.phone != "" {
		fields = append(fields, Field{Name: "phone", Value: c.phone})
	}
	if c.service != "" {
		fields = append(fields, Field{Name: "service", Value: c.service})
	}
	return append(fields, Field{Name: "message", Value: c.message})
}

// Join is a validated join request.
type Join struct {
	area    string
	details string
	contact string
	locale  locale.Locale
}

func (j Join) Kind() Kind            { return KindJoin }
func (j Join) Area() string          { return j.area }
func (j Join) Details() string       { return j.details }
func (j Join) Contact() string       { return j.contact }
func (j Join) Locale() locale.Locale { return j.locale }

func (j Join) Fields() []Field {
	fields := []Field{{Name: "q1", Value: j.area}}
	if j.details != "" {
		fields = append(fields, Field{Name: "q2", Value: j.details})
	}
	return append(fields, Field{Name: "q3", Value: j.contact})
}

// IsAutomated reports whether a honeypot field was filled in.
func IsAutomated(honeypot string) bool {
	return strings.TrimSpace(honeypot) != ""
}

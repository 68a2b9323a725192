package commands

import (
	"fmt"
	"strconv"
	"strings"

	"booking-orchestrator/internal/domain/eventtype"

	"github.com/go-playground/validator/v10"
)

// bookingSchema checks responses against the booking fields that apply to one view.
type bookingSchema struct {
	fields   []eventtype.BookingField
	validate *validator.Validate
}

func newBookingSchema(v *validator.Validate, et *eventtype.EventType, view eventtype.View) bookingSchema {
	fields := et.BookingFields
	if len(fields) == 0 {
		fields = eventtype.DefaultBookingFields()
	}
	applicable := make([]eventtype.BookingField, 0, len(fields))
	for _, f := range fields {
		if f.AppliesTo(view) {
			applicable = append(applicable, f)
		}
	}
	return bookingSchema{fields: ensureSystemFields(applicable), validate: v}
}

// name and email are always collected, whatever the form says
func ensureSystemFields(fields []eventtype.BookingField) []eventtype.BookingField {
	var hasName, hasEmail bool
	for i := range fields {
		switch fields[i].Name {
		case eventtype.ResponseName:
			hasName = true
			fields[i].Required = true
		case eventtype.ResponseEmail:
			hasEmail = true
			fields[i].Required = true
		}
	}
	if !hasName {
		fields = append(fields, eventtype.BookingField{Name: eventtype.ResponseName, Type: eventtype.FieldName, Required: true})
	}
	if !hasEmail {
		fields = append(fields, eventtype.BookingField{Name: eventtype.ResponseEmail, Type: eventtype.FieldEmail, Required: true})
	}
	return fields
}

// parse returns normalized responses; unknown keys are kept untouched.
func (s bookingSchema) parse(responses map[string]any) (map[string]any, ValidationErrors) {
	out := make(map[string]any, len(responses))
	for k, v := range responses {
		out[k] = v
	}

	var verrs ValidationErrors
	for _, f := range s.fields {
		raw, present := responses[f.Name]
		if !present || isEmpty(raw) {
			if f.Required && !f.Hidden {
				verrs.add(f.Name, "is required")
			}
			delete(out, f.Name)
			continue
		}
		value, msg := s.parseField(f, raw)
		if msg != "" {
			verrs.add(f.Name, msg)
			continue
		}
		out[f.Name] = value
	}
	return out, verrs
}

func (s bookingSchema) parseField(f eventtype.BookingField, raw any) (any, string) {
	switch f.Type {
	case eventtype.FieldName:
		return parseName(raw)
	case eventtype.FieldEmail:
		return s.stringWithTag(raw, "email", "must be a valid email")
	case eventtype.FieldPhone:
		return s.stringWithTag(raw, "e164", "must be an E.164 phone number")
	case eventtype.FieldURL:
		return s.stringWithTag(raw, "url", "must be a valid URL")
	case eventtype.FieldText, eventtype.FieldTextarea:
		str, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		if f.MaxLength > 0 {
			if err := s.validate.Var(str, "max="+strconv.Itoa(f.MaxLength)); err != nil {
				return nil, fmt.Sprintf("must be at most %d characters", f.MaxLength)
			}
		}
		return str, ""
	case eventtype.FieldNumber:
		switch n := raw.(type) {
		case float64:
			return n, ""
		case string:
			if err := s.validate.Var(n, "numeric"); err != nil {
				return nil, "must be a number"
			}
			parsed, _ := strconv.ParseFloat(n, 64)
			return parsed, ""
		}
		return nil, "must be a number"
	case eventtype.FieldBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, "must be a boolean"
		}
		return b, ""
	case eventtype.FieldSelect, eventtype.FieldRadio:
		str, ok := raw.(string)
		if !ok || !contains(f.Options, str) {
			return nil, "must be one of the offered options"
		}
		return str, ""
	case eventtype.FieldMultiSelect, eventtype.FieldCheckbox:
		list, ok := stringList(raw)
		if !ok {
			return nil, "must be a list of options"
		}
		for _, item := range list {
			if !contains(f.Options, item) {
				return nil, fmt.Sprintf("%q is not an offered option", item)
			}
		}
		return list, ""
	case eventtype.FieldMultiEmail:
		list, ok := stringList(raw)
		if !ok {
			return nil, "must be a list of emails"
		}
		if err := s.validate.Var(list, "dive,email"); err != nil {
			return nil, "must contain only valid emails"
		}
		return list, ""
	case eventtype.FieldRadioInput:
		return parseLocation(raw)
	}
	return raw, ""
}

func (s bookingSchema) stringWithTag(raw any, tag, msg string) (any, string) {
	str, ok := raw.(string)
	if !ok {
		return nil, msg
	}
	str = strings.TrimSpace(str)
	if err := s.validate.Var(str, tag); err != nil {
		return nil, msg
	}
	return str, ""
}

func parseName(raw any) (any, string) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, "is required"
		}
		return strings.TrimSpace(v), ""
	case map[string]any:
		first, _ := v["firstName"].(string)
		last, _ := v["lastName"].(string)
		full := strings.TrimSpace(first + " " + last)
		if full == "" {
			return nil, "is required"
		}
		return full, ""
	}
	return nil, "must be a string"
}

// location is either a plain string or {value, optionValue}
func parseLocation(raw any) (any, string) {
	switch v := raw.(type) {
	case string:
		return v, ""
	case map[string]any:
		value, _ := v["value"].(string)
		if option, _ := v["optionValue"].(string); option != "" {
			return option, ""
		}
		if value == "" {
			return nil, "must name a location"
		}
		return value, ""
	}
	return nil, "must be a location"
}

func stringList(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

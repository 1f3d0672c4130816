// Package validate normalizes free-form entity input before it reaches the
// store. Every validator trims strings, converts empty optional text to NULL,
// and either returns the normalized record or a single *Error that carries
// all violated-field messages.
package validate

import (
	"regexp"
	"strings"

	"biblioteca/pkg/models"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	urlRe   = regexp.MustCompile(`(?i)^https?://`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// CoverRefPrefix marks cover references produced by the local cover store, the
// one non-URL scheme the book validator accepts.
const CoverRefPrefix = "covers://"

// FieldIssue is one violated field with its message.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error aggregates every field issue of a validation pass.
type Error struct {
	Issues []FieldIssue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "invalid input"
	}
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.Message
	}
	return strings.Join(msgs, ", ")
}

// IsDate reports whether v matches the stored YYYY-MM-DD date format.
func IsDate(v string) bool {
	return dateRe.MatchString(v)
}

// Single builds a validation error for one field.
func Single(field, message string) error {
	return &Error{Issues: []FieldIssue{{Field: field, Message: message}}}
}

type collector struct {
	issues []FieldIssue
}

func (c *collector) add(field, message string) {
	c.issues = append(c.issues, FieldIssue{Field: field, Message: message})
}

func (c *collector) err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &Error{Issues: c.issues}
}

// trimmed converts an optional text field: trim, empty becomes NULL.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

// required trims a mandatory text field, recording an issue when missing.
func (c *collector) required(field string, p *string, message string) string {
	if p == nil {
		c.add(field, message)
		return ""
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		c.add(field, message)
	}
	return v
}

// date validates an optional YYYY-MM-DD field.
func (c *collector) date(field string, p *string) *string {
	v := trimmed(p)
	if v == nil {
		return nil
	}
	if !dateRe.MatchString(*v) {
		c.add(field, "invalid date (YYYY-MM-DD)")
		return nil
	}
	return v
}

// requiredDate validates a mandatory YYYY-MM-DD field.
func (c *collector) requiredDate(field string, p *string, message string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		c.add(field, message)
		return ""
	}
	v := strings.TrimSpace(*p)
	if !dateRe.MatchString(v) {
		c.add(field, "invalid date (YYYY-MM-DD)")
		return ""
	}
	return v
}

// url validates an optional http(s) URL. allowCoverRef additionally accepts
// references produced by the cover store.
func (c *collector) url(field string, p *string, allowCoverRef bool) *string {
	v := trimmed(p)
	if v == nil {
		return nil
	}
	if urlRe.MatchString(*v) {
		return v
	}
	if allowCoverRef && strings.HasPrefix(*v, CoverRefPrefix) {
		return v
	}
	c.add(field, "invalid URL")
	return nil
}

// oneOf restricts an optional field to a fixed value set.
func (c *collector) oneOf(field string, p *string, allowed ...string) *string {
	v := trimmed(p)
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return v
		}
	}
	c.add(field, "invalid "+field)
	return nil
}

// boundedInt restricts an optional integer to [min, max].
func (c *collector) boundedInt(field string, p *int, min, max int) *int {
	if p == nil {
		return nil
	}
	if *p < min || *p > max {
		c.add(field, "invalid "+field)
		return nil
	}
	v := *p
	return &v
}

// positiveInt restricts an optional integer to > 0.
func (c *collector) positiveInt(field string, p *int) *int {
	if p == nil {
		return nil
	}
	if *p <= 0 {
		c.add(field, "invalid "+field)
		return nil
	}
	v := *p
	return &v
}

// nonNegative restricts an optional number to >= 0.
func (c *collector) nonNegative(field string, p *float64) *float64 {
	if p == nil {
		return nil
	}
	if *p < 0 {
		c.add(field, "invalid "+field)
		return nil
	}
	v := *p
	return &v
}

// flag normalizes a boolean-ish field to 0/1, with a default when absent.
func flag(p *models.Flag, def int) int {
	if p == nil {
		return def
	}
	return p.Int()
}

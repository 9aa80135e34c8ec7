package diag

import (
	"errors"
	"fmt"

	"tarn/internal/names"
)

// Diagnostic is one finding. Name is the definition being lowered when
// the finding was made; it is the zero Name for findings outside any
// definition (snapshot IO, driver setup). Detail optionally carries a
// dump of the offending term or tree for bug reports.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Name     names.Name
	Message  string
	Detail   string
}

func New(sev Severity, code Code, name names.Name, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Name:     name,
		Message:  msg,
	}
}

func NewError(code Code, name names.Name, msg string) *Diagnostic {
	return New(SevError, code, name, msg)
}

func NewWarning(code Code, name names.Name, msg string) *Diagnostic {
	return New(SevWarning, code, name, msg)
}

func NewBug(code Code, name names.Name, msg string) *Diagnostic {
	return New(SevBug, code, name, msg)
}

// WithDetail attaches a dump and returns d for chaining.
func (d *Diagnostic) WithDetail(detail string) *Diagnostic {
	d.Detail = detail
	return d
}

// Error implements error, so producers can abort through ordinary error
// plumbing and callers can recover the structured form with FromError.
func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	if d.Name.IsZero() {
		return fmt.Sprintf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	}
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Code.ID(), d.Name, d.Message)
}

// FromError unwraps err into a Diagnostic when one is in its chain.
func FromError(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

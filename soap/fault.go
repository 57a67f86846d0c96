package soap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Fault represents a SOAP fault raised by an ISHWS service.
type Fault struct {
	// Code is the SOAP fault code (e.g., "s:Client", "s:Receiver").
	Code string

	// Reason is the human-readable fault string.
	Reason string

	// Number is the ISH error number from the "[-106011]" prefix of the
	// reason, or 0 when absent.
	Number int

	// Detail is the raw fault detail.
	Detail string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	var parts []string
	if f.Code != "" {
		parts = append(parts, f.Code)
	}
	if f.Reason != "" {
		parts = append(parts, f.Reason)
	}
	return "soap fault: " + strings.Join(parts, ": ")
}

// IsNotFound returns true if the fault says the object does not exist.
func (f *Fault) IsNotFound() bool {
	r := strings.ToLower(f.Reason)
	return strings.Contains(r, "does not exist") ||
		strings.Contains(r, "not found") ||
		strings.Contains(r, "invalidobject")
}

// IsAccessDenied returns true if the fault indicates missing rights.
func (f *Fault) IsAccessDenied() bool {
	r := strings.ToLower(f.Reason)
	return strings.Contains(r, "access denied") ||
		strings.Contains(r, "not authorized") ||
		strings.Contains(r, "no access") ||
		strings.Contains(r, "insufficient privileges")
}

// IsFault returns true if the error is a SOAP Fault.
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}

var faultNumber = regexp.MustCompile(`^\s*\[(-?\d+)\]`)

// ParseFault parses a SOAP 1.1 or 1.2 response and returns a Fault if
// present. Returns nil if the response does not contain a fault.
func ParseFault(data []byte) (*Fault, error) {
	if !strings.Contains(string(data), "Fault") {
		return nil, nil
	}

	var env faultEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse fault: %w", err)
	}
	xf := env.Body.Fault
	if xf == nil {
		return nil, nil
	}

	f := &Fault{
		Code:   strings.TrimSpace(xf.FaultCode),
		Reason: strings.TrimSpace(xf.FaultString),
		Detail: strings.TrimSpace(xf.Detail11.Content),
	}
	// SOAP 1.2 layout
	if f.Code == "" {
		f.Code = strings.TrimSpace(xf.Code.Value)
	}
	if f.Reason == "" {
		f.Reason = strings.TrimSpace(xf.Reason.Text)
	}
	if f.Detail == "" {
		f.Detail = strings.TrimSpace(xf.Detail12.Content)
	}
	if m := faultNumber.FindStringSubmatch(f.Reason); m != nil {
		f.Number, _ = strconv.Atoi(m[1])
	}
	return f, nil
}

// CheckFault parses a response and returns an error if it contains a fault.
func CheckFault(data []byte) error {
	fault, err := ParseFault(data)
	if err != nil {
		return err
	}
	if fault != nil {
		return fault
	}
	return nil
}

type faultEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault *struct {
			// SOAP 1.1
			FaultCode   string `xml:"faultcode"`
			FaultString string `xml:"faultstring"`
			Detail11    struct {
				Content string `xml:",innerxml"`
			} `xml:"detail"`

			// SOAP 1.2
			Code struct {
				Value string `xml:"Value"`
			} `xml:"Code"`
			Reason struct {
				Text string `xml:"Text"`
			} `xml:"Reason"`
			Detail12 struct {
				Content string `xml:",innerxml"`
			} `xml:"Detail"`
		} `xml:"Fault"`
	} `xml:"Body"`
}

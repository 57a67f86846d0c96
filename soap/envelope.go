package soap

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
)

// Envelope represents a SOAP 1.1 envelope.
type Envelope struct {
	XMLName xml.Name `xml:"s:Envelope"`
	NsSoap  string   `xml:"xmlns:s,attr"`

	Header *Header `xml:"s:Header,omitempty"`
	Body   *Body   `xml:"s:Body"`
}

// Header holds optional SOAP header blocks.
type Header struct {
	Content []byte `xml:",innerxml"`
}

// Body represents the SOAP body.
type Body struct {
	Content []byte `xml:",innerxml"`
}

// NewEnvelope creates a new SOAP 1.1 envelope.
func NewEnvelope() *Envelope {
	return &Envelope{
		NsSoap: NsSoap11,
		Body:   &Body{},
	}
}

// WithHeader appends a raw header block.
func (e *Envelope) WithHeader(content []byte) *Envelope {
	if e.Header == nil {
		e.Header = &Header{}
	}
	e.Header.Content = append(e.Header.Content, content...)
	return e
}

// WithBody sets the SOAP body content.
func (e *Envelope) WithBody(content []byte) *Envelope {
	e.Body.Content = content
	return e
}

// WithRequest sets the body to the serialized request.
func (e *Envelope) WithRequest(r *Request) (*Envelope, error) {
	body, err := r.MarshalBody()
	if err != nil {
		return nil, err
	}
	return e.WithBody(body), nil
}

// Marshal serializes the envelope to XML.
func (e *Envelope) Marshal() ([]byte, error) {
	return xml.Marshal(e)
}

// MarshalIndent serializes the envelope to indented XML.
func (e *Envelope) MarshalIndent(prefix, indent string) ([]byte, error) {
	return xml.MarshalIndent(e, prefix, indent)
}

// Param is one named operation parameter.
type Param struct {
	Name  string
	Value any
}

// Request is one API25 operation call. Parameters are serialized in the
// order they were added.
type Request struct {
	Service   string
	Operation string
	Params    []Param
}

// NewRequest starts a request for operation on service.
func NewRequest(service, operation string) *Request {
	return &Request{Service: service, Operation: operation}
}

// With appends a parameter. Supported values are string, int, int64,
// bool, []byte (base64), []string and []int64; nil is sent as an empty
// element.
func (r *Request) With(name string, value any) *Request {
	r.Params = append(r.Params, Param{Name: name, Value: value})
	return r
}

// Action returns the SOAPAction of the request.
func (r *Request) Action() string {
	return Action(r.Service, r.Operation)
}

// MarshalBody encodes <Operation xmlns="ns"><param>..</param></Operation>.
func (r *Request) MarshalBody() ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	op := xml.StartElement{
		Name: xml.Name{Local: r.Operation},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: ServiceNamespace(r.Service)}},
	}
	if err := enc.EncodeToken(op); err != nil {
		return nil, err
	}
	for _, p := range r.Params {
		if err := encodeParam(enc, p); err != nil {
			return nil, fmt.Errorf("%s.%s parameter %s: %w", r.Service, r.Operation, p.Name, err)
		}
	}
	if err := enc.EncodeToken(op.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeParam(enc *xml.Encoder, p Param) error {
	start := xml.StartElement{Name: xml.Name{Local: p.Name}}
	switch v := p.Value.(type) {
	case nil:
		return encodeText(enc, start, "")
	case string:
		return encodeText(enc, start, v)
	case int:
		return encodeText(enc, start, strconv.Itoa(v))
	case int64:
		return encodeText(enc, start, strconv.FormatInt(v, 10))
	case bool:
		return encodeText(enc, start, strconv.FormatBool(v))
	case []byte:
		return encodeText(enc, start, base64.StdEncoding.EncodeToString(v))
	case []string:
		return encodeArray(enc, start, "string", v)
	case []int64:
		items := make([]string, len(v))
		for i, n := range v {
			items[i] = strconv.FormatInt(n, 10)
		}
		return encodeArray(enc, start, "long", items)
	default:
		return fmt.Errorf("unsupported parameter type %T", p.Value)
	}
}

func encodeText(enc *xml.Encoder, start xml.StartElement, text string) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if text != "" {
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeArray(enc *xml.Encoder, start xml.StartElement, itemType string, items []string) error {
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xmlns:a"}, Value: NsArrays})
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, item := range items {
		if err := encodeText(enc, xml.StartElement{Name: xml.Name{Local: "a:" + itemType}}, item); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

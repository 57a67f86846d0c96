package soap

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Response holds the out parameters of an operation, that is the
// children of its <OperationResponse> element.
type Response struct {
	Operation string
	params    []node
}

type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

type responseEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Content []node `xml:",any"`
	} `xml:"Body"`
}

// ParseResponse decodes a SOAP response envelope.
func ParseResponse(data []byte) (*Response, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(env.Body.Content) == 0 {
		return nil, fmt.Errorf("parse response: empty body")
	}
	root := env.Body.Content[0]
	return &Response{
		Operation: strings.TrimSuffix(root.XMLName.Local, "Response"),
		params:    root.Nodes,
	}, nil
}

func (r *Response) find(name string) (node, bool) {
	for _, n := range r.params {
		if n.XMLName.Local == name {
			return n, true
		}
	}
	return node{}, false
}

// Has reports whether the out parameter is present and not nil.
func (r *Response) Has(name string) bool {
	n, ok := r.find(name)
	return ok && !n.isNil()
}

// String returns the text of an out parameter. ISH returns its XML
// payloads as escaped text, so this is also how ishobjects are read.
// A missing or nil parameter yields "".
func (r *Response) String(name string) string {
	n, ok := r.find(name)
	if !ok || n.isNil() {
		return ""
	}
	return n.Text
}

// Strings returns the items of an array out parameter.
func (r *Response) Strings(name string) []string {
	n, ok := r.find(name)
	if !ok || n.isNil() {
		return nil
	}
	out := make([]string, 0, len(n.Nodes))
	for _, item := range n.Nodes {
		out = append(out, item.Text)
	}
	return out
}

// Int64 parses an integer out parameter.
func (r *Response) Int64(name string) (int64, error) {
	s := strings.TrimSpace(r.String(name))
	if s == "" {
		return 0, fmt.Errorf("%s: missing %s", r.Operation, name)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", r.Operation, name, err)
	}
	return v, nil
}

// Int64s parses an array of integers.
func (r *Response) Int64s(name string) ([]int64, error) {
	items := r.Strings(name)
	out := make([]int64, 0, len(items))
	for _, s := range items {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", r.Operation, name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (n node) isNil() bool {
	for _, a := range n.Attrs {
		if a.Name.Local == "nil" && a.Value == "true" {
			return true
		}
	}
	return false
}

// Package log builds the slog loggers of the ishremote command: level
// parsing, a rotating log file, and a handler that keeps credentials out
// of the output.
package log

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of sensitive attributes.
const Redacted = "[REDACTED]"

// sensitiveKeys are matched as case-insensitive substrings of attribute
// keys.
var sensitiveKeys = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"ticket",
	"cred",
	"cookie",
	"authorization",
	"apikey",
	"api_key",
	"keytab",
}

// credentialPrefixes mark string values that carry a credential whatever
// their key, like an Authorization header value.
var credentialPrefixes = []string{"Basic ", "Bearer ", "Negotiate ", "NTLM "}

// RedactingHandler wraps a slog.Handler and redacts credentials.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler creates a new RedactingHandler.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

// IsSensitiveKey reports whether values logged under key are redacted.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		group := make([]any, len(attrs))
		for i, attr := range attrs {
			group[i] = redactAttr(attr)
		}
		return slog.Group(a.Key, group...)
	}
	if IsSensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		for _, p := range credentialPrefixes {
			if strings.HasPrefix(v, p) {
				return slog.String(a.Key, strings.TrimSpace(p)+" "+Redacted)
			}
		}
	}
	return a
}

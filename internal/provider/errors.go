package provider

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nulzo/llm-translate/internal/httpclient"
)

// Kind classifies a translation failure.
type Kind string

const (
	KindConfiguration       Kind = "configuration"
	KindUnsupportedProvider Kind = "unsupported_provider"
	KindTransport           Kind = "transport"
	KindProviderHTTP        Kind = "provider_http"
	KindMalformedResponse   Kind = "malformed_response"
)

// Reason refines KindProviderHTTP for status codes a provider gives guidance for.
type Reason string

const (
	ReasonModelNotFound Reason = "model_not_found"
	ReasonAccessDenied  Reason = "access_denied"
	ReasonBadRequest    Reason = "bad_request"
	ReasonServerError   Reason = "server_error"
)

// Error is the single error type adapters return.
type Error struct {
	Kind       Kind
	Reason     Reason
	Provider   ID
	StatusCode int
	Body       string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err wraps an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == kind
}

// ConfigurationError is returned before any request when settings are incomplete.
func ConfigurationError(id ID, msg string) *Error {
	return &Error{Kind: KindConfiguration, Provider: id, Message: msg}
}

// UnsupportedProviderError is returned for IDs outside the known set.
func UnsupportedProviderError(id ID) *Error {
	return &Error{
		Kind:     KindUnsupportedProvider,
		Provider: id,
		Message:  fmt.Sprintf("unsupported provider: %q", string(id)),
	}
}

// TransportError wraps a failure to reach the provider at all.
func TransportError(id ID, msg string, err error) *Error {
	return &Error{Kind: KindTransport, Provider: id, Message: msg, Err: err}
}

// HTTPError records a non-2xx answer.
func HTTPError(id ID, reason Reason, status int, body []byte, msg string) *Error {
	return &Error{
		Kind:       KindProviderHTTP,
		Reason:     reason,
		Provider:   id,
		StatusCode: status,
		Body:       string(body),
		Message:    msg,
	}
}

// MalformedResponseError records a 2xx answer without the expected content.
func MalformedResponseError(id ID, msg string, err error) *Error {
	return &Error{Kind: KindMalformedResponse, Provider: id, Message: msg, Err: err}
}

// Hints carries provider wording for Classify. Nil or empty fields fall back to
// generic messages.
type Hints struct {
	Unreachable string
	Status      func(e *httpclient.UpstreamError) (Reason, string)
	Malformed   string
}

// Classify turns an httpclient failure into an *Error.
func Classify(id ID, err error, h Hints) error {
	if err == nil {
		return nil
	}

	var upstream *httpclient.UpstreamError
	if errors.As(err, &upstream) {
		reason := Reason("")
		msg := fmt.Sprintf("%s API error: %d", id.DisplayName(), upstream.StatusCode)
		if h.Status != nil {
			reason, msg = h.Status(upstream)
		}
		return HTTPError(id, reason, upstream.StatusCode, upstream.Body, msg)
	}

	var transport *httpclient.TransportError
	if errors.As(err, &transport) {
		msg := h.Unreachable
		if msg == "" {
			msg = fmt.Sprintf("cannot connect to %s. Check your network connection and that the service is reachable.", id.DisplayName())
		}
		return TransportError(id, msg, err)
	}

	var decode *httpclient.DecodeError
	if errors.As(err, &decode) {
		return MalformedResponseError(id, malformedMessage(id, h), err)
	}

	return &Error{Kind: KindTransport, Provider: id, Message: err.Error(), Err: err}
}

// Malformed builds the error for a decoded body missing its content field.
func Malformed(id ID, h Hints) *Error {
	return MalformedResponseError(id, malformedMessage(id, h), nil)
}

func malformedMessage(id ID, h Hints) string {
	if h.Malformed != "" {
		return h.Malformed
	}
	return fmt.Sprintf("invalid response from %s", id.DisplayName())
}

// StatusLine renders "404 Not Found" style text for messages.
func StatusLine(e *httpclient.UpstreamError) string {
	text := e.Status
	if text == "" {
		text = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, text)
}

package models

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrorKind classifies where a load or submit failed.
type ErrorKind int

const (
	// KindTransport means the request never produced a response.
	KindTransport ErrorKind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindPayload means a well-formed body declared an error.
	KindPayload
	// KindDecode means the body could not be understood.
	KindDecode
	// KindTimeout means the submission deadline passed.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindPayload:
		return "payload"
	case KindDecode:
		return "decode"
	case KindTimeout:
		return "timeout"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// UnknownErrorMessage is used when a failed response carries no message.
const UnknownErrorMessage = "Unknown error"

// LoadError reports a failed static resource load.
type LoadError struct {
	Kind    ErrorKind
	Status  int
	URL     string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("http error: status %d, url: %s", e.Status, e.URL)
	case KindPayload:
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("load %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.URL, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SubmitError reports a failed scoring request.
type SubmitError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("http error: status %d, message: %s", e.Status, e.Message)
	case KindPayload:
		return e.Message
	case KindTimeout:
		return "request timed out: " + e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return "request failed: " + e.Message
}

func (e *SubmitError) Unwrap() error { return e.Err }

// ValidationError blocks a submission before any network call.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a submission that ran out of time.
func IsTimeout(err error) bool {
	var se *SubmitError
	return errors.As(err, &se) && se.Kind == KindTimeout
}

// DeclaredError reports the document's top-level "error" field when it is
// truthy: a non-empty string, true, a non-zero number, an object or an
// array. Empty strings, false, 0 and null do not count as errors.
func DeclaredError(body []byte) (string, bool) {
	e := gjson.GetBytes(body, "error")
	switch e.Type {
	case gjson.String:
		return e.Str, e.Str != ""
	case gjson.True:
		return e.Raw, true
	case gjson.Number:
		return e.Raw, e.Num != 0
	case gjson.JSON:
		return e.Raw, true
	}
	return "", false
}

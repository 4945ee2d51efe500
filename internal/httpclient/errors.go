package httpclient

import "fmt"

// UpstreamError is a response outside the 2xx range. Body holds at most the
// first 64KiB of the reply.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned %d %s", e.URL, e.StatusCode, e.Status)
}

// TransportError means no response arrived: DNS failure, refused connection
// or timeout.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a 2xx reply whose body did not decode.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

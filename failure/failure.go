// Package failure models the ways a call to the conversion service can fail
// and maps each of them to a user-facing message.
//
// The transport returns exactly one of three error types: ResponseError when
// the server answered with a non-2xx status, NoResponseError when the request
// went out but nothing came back, and InternalError for everything that went
// wrong before the request reached the network. A 2xx body that cannot be
// decoded is reported as ErrMalformedEnvelope. Classify is total over these
// and treats any foreign error as InternalError.
package failure

import (
	"errors"
	"fmt"
	"net/http"

	"saythenumber/shared/types"
)

// User-facing messages.
const (
	MsgEmptyInput         = "Please enter a number"
	MsgTooLargeFormat     = "Number too large - maximum is %d digits"
	MsgRateLimitedFormat  = "%s. Please wait and try again."
	MsgNetworkUnreachable = "Network error - no response from server"
	MsgUnexpectedResponse = "Unexpected response from server"
	MsgUnknown            = "Something went wrong. Please try again."
)

// ErrMalformedEnvelope is returned when a 2xx body cannot be decoded.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

// Error is implemented by the three transport failure variants only.
type Error interface {
	error
	failure()
}

// ResponseError means the server replied with a non-2xx status.
type ResponseError struct {
	StatusCode int
	// Message is the "message" field of the body; empty if absent.
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (*ResponseError) failure() {}

// NoResponseError means the request was sent but no response arrived.
type NoResponseError struct {
	Err error
}

func (e *NoResponseError) Error() string { return fmt.Sprintf("no response: %v", e.Err) }
func (e *NoResponseError) Unwrap() error { return e.Err }
func (*NoResponseError) failure()        {}

// InternalError covers failures before the request reached the network.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string { return fmt.Sprintf("internal: %v", e.Err) }
func (e *InternalError) Unwrap() error { return e.Err }
func (*InternalError) failure()        {}

// Classify maps a transport error to its category and display message.
// Response-present variants are checked before response-absent ones.
func Classify(err error) types.ErrorInfo {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		msg := respErr.Message
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", respErr.StatusCode)
		}
		if respErr.StatusCode == http.StatusTooManyRequests {
			return types.ErrorInfo{Kind: types.KindRateLimited, Message: fmt.Sprintf(MsgRateLimitedFormat, msg)}
		}
		return types.ErrorInfo{Kind: types.KindRemoteRejected, Message: msg}
	}
	if errors.Is(err, ErrMalformedEnvelope) {
		return UnexpectedResponse()
	}

	var noResp *NoResponseError
	if errors.As(err, &noResp) {
		return types.ErrorInfo{Kind: types.KindNetworkUnreachable, Message: MsgNetworkUnreachable}
	}

	return types.ErrorInfo{Kind: types.KindUnknown, Message: MsgUnknown}
}

// EmptyInput is the local failure for an empty literal.
func EmptyInput() types.ErrorInfo {
	return types.ErrorInfo{Kind: types.KindEmptyInput, Message: MsgEmptyInput}
}

// TooLarge is the local failure for a literal with more than maxDigits digits.
func TooLarge(maxDigits int) types.ErrorInfo {
	return types.ErrorInfo{Kind: types.KindTooLarge, Message: fmt.Sprintf(MsgTooLargeFormat, maxDigits)}
}

// UnexpectedResponse is the failure for a 2xx reply whose envelope is not "ok".
func UnexpectedResponse() types.ErrorInfo {
	return types.ErrorInfo{Kind: types.KindUnexpectedResponse, Message: MsgUnexpectedResponse}
}

package reqx

import "fmt"

// CodeSuccess is the only envelope code treated as success.
const CodeSuccess = 200

// Codes reported by the server when the session token is no longer
// accepted. Either one triggers a SessionEvent.
const (
	CodeIllegalToken = 11001
	CodeTokenExpired = 11002
)

// UnknownError is shown when neither the message table nor the server
// provide a message.
const UnknownError = "Unknown error, please try again"

// Envelope is the wire wrapper of every backend response.
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK reports whether the envelope carries the success code.
func (e *Envelope[T]) OK() bool {
	return e.Code == CodeSuccess
}

var codeMessages = map[int]string{
	302: "The endpoint was redirected!",
	400: "Invalid parameters!",
	401: "You are not logged in or your session has expired, please log in first!",
	403: "You do not have permission for this operation!",
	408: "Request timed out!",
	409: "The same data already exists!",
	500: "Internal server error!",
	501: "Service not implemented!",
	502: "Gateway error!",
	503: "Service unavailable!",
	504: "Service temporarily inaccessible, please try again later!",
	505: "HTTP version not supported!",
}

// MessageFor resolves the text shown for a failed envelope. Known codes
// use the fixed table, 404 embeds the request url, and anything else
// falls back to the server message and finally to UnknownError.
func MessageFor(code int, serverMessage, url string) string {
	msg, ok := codeMessages[code]
	switch {
	case code == 404:
		msg = fmt.Sprintf("Request address error: %s", url)
	case !ok:
		msg = serverMessage
	}

	if msg == "" {
		return UnknownError
	}
	return msg
}

// IsSessionInvalidCode reports whether code is one of the illegal token
// codes.
func IsSessionInvalidCode(code int) bool {
	return code == CodeIllegalToken || code == CodeTokenExpired
}

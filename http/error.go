package http

import (
	"fmt"
	"net/http"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// codes maps policy error codes to HTTP status codes.
var codes = map[string]int{
	sosumi.EINVALID:        http.StatusBadRequest,
	sosumi.ESCHEME:         http.StatusBadRequest,
	sosumi.ECREDENTIALS:    http.StatusBadRequest,
	sosumi.EFRAGMENT:       http.StatusBadRequest,
	sosumi.EHOSTBLOCKED:    http.StatusForbidden,
	sosumi.ENOTALLOWLISTED: http.StatusForbidden,
	sosumi.EPRIVATEHOST:    http.StatusForbidden,
	sosumi.EROBOTSDENIED:   http.StatusForbidden,
	sosumi.EACCESSDENIED:   http.StatusForbidden,
	sosumi.ENOTFOUND:       http.StatusNotFound,
	sosumi.EUNAVAILABLE:    http.StatusBadGateway,
}

// ErrorStatusCode returns the HTTP status code for an error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// writeError renders an error as a plain-text response. Server faults log;
// client and policy rejections do not.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorStatusCode(sosumi.ErrorCode(err))
	if status >= 500 {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"err", err,
		)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, sosumi.ErrorMessage(err))
}

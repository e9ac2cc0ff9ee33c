package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
)

// queryInt64 parses a required int64 query parameter.
func queryInt64(r *http.Request, name string) (int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, &core.ValidationError{Field: name, Message: "required"}
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, &core.ValidationError{Field: name, Message: "must be an integer"}
	}
	return n, nil
}

// queryInt parses a required int query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	n, err := queryInt64(r, name)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// queryDate parses a required YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return core.Date{}, &core.ValidationError{Field: name, Message: "required"}
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, &core.ValidationError{Field: name, Message: "must be YYYY-MM-DD"}
	}
	return d, nil
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

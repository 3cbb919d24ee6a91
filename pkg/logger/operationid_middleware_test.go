package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
)

func TestOperationIDFromHeader(t *testing.T) {
	RegisterTestingT(t)

	var seen string
	handler := OperationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetOperationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/best?zone=eu", nil)
	req.Header.Set(OpIDHeader, "op-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	Expect(seen).To(Equal("op-123"))
	Expect(rec.Header().Get(OpIDHeader)).To(Equal("op-123"))
}

func TestOperationIDGenerated(t *testing.T) {
	RegisterTestingT(t)

	var seen string
	handler := OperationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetOperationID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	Expect(seen).NotTo(BeEmpty())
	Expect(rec.Header().Get(OpIDHeader)).To(Equal(seen))
}

func TestWithOpIDKeepsExisting(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.WithValue(context.Background(), OpIDKey, "fixed")
	Expect(GetOperationID(WithOpID(ctx))).To(Equal("fixed"))
	Expect(GetOperationID(context.Background())).To(BeEmpty())
}

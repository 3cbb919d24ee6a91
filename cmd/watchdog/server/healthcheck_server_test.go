package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
)

func serveHealthCheck(s *HealthCheckServer) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	return rec
}

func TestHealthCheckNotReadyBeforeFirstProbe(t *testing.T) {
	RegisterTestingT(t)

	s := newHealthCheckServer(map[string]dependencyCheck{})

	rec := serveHealthCheck(s)
	Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
	Expect(rec.Body.String()).To(ContainSubstring("not ready"))
}

func TestHealthCheckReady(t *testing.T) {
	RegisterTestingT(t)

	calls := 0
	s := newHealthCheckServer(map[string]dependencyCheck{
		"database": func() error { calls++; return nil },
	})
	s.probe(context.Background())

	rec := serveHealthCheck(s)
	Expect(calls).To(Equal(1))
	Expect(rec.Code).To(Equal(http.StatusOK))
	Expect(rec.Body.String()).To(MatchJSON(`{"status": "ok"}`))
}

func TestHealthCheckFailingDependency(t *testing.T) {
	RegisterTestingT(t)

	brokerUp := true
	s := newHealthCheckServer(map[string]dependencyCheck{
		"database": func() error { return nil },
		"message_broker": func() error {
			if brokerUp {
				return nil
			}
			return fmt.Errorf("not connected")
		},
	})

	s.probe(context.Background())
	Expect(serveHealthCheck(s).Code).To(Equal(http.StatusOK))

	brokerUp = false
	s.probe(context.Background())
	Expect(serveHealthCheck(s).Code).To(Equal(http.StatusServiceUnavailable))

	brokerUp = true
	s.probe(context.Background())
	Expect(serveHealthCheck(s).Code).To(Equal(http.StatusOK))
}

func TestHealthCheckRejectsOtherMethods(t *testing.T) {
	RegisterTestingT(t)

	s := newHealthCheckServer(map[string]dependencyCheck{})
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthcheck", nil))
	Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serveAPI(handler http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAPIRoutes(t *testing.T) {
	RegisterTestingT(t)

	table := resetStateTable()
	registerServer(t, "routes1", "eu")
	registerServer(t, "routes2", "eu")
	servers, svcErr := env().Services.Servers().All(context.Background())
	Expect(svcErr).To(BeNil())
	Expect(table.Bootstrap(servers)).To(Succeed())

	Expect(applyHeartbeats(table, "routes2", 2)).To(Succeed())

	ResetMetricCollectors()
	s := NewAPIServer().(*apiServer)
	handler := s.httpServer.Handler

	rec := serveAPI(handler, "/api/watchdog/v1/best?zone=eu")
	Expect(rec.Code).To(Equal(http.StatusOK))
	var best struct {
		Kind  string `json:"kind"`
		Zone  string `json:"zone"`
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	Expect(json.Unmarshal(rec.Body.Bytes(), &best)).To(Succeed())
	Expect(best.Kind).To(Equal("BestServerList"))
	Expect(best.Zone).To(Equal("eu"))
	Expect(best.Items).To(HaveLen(1))
	Expect(best.Items[0].Name).To(Equal("routes2"))

	// trailing slashes are ignored
	Expect(serveAPI(handler, "/api/watchdog/v1/servers/").Code).To(Equal(http.StatusOK))

	Expect(serveAPI(handler, "/api/watchdog/v1/best").Code).To(Equal(http.StatusBadRequest))
	Expect(serveAPI(handler, "/api/watchdog/v1/nothing").Code).To(Equal(http.StatusNotFound))

	// requests are counted per route template, not per query
	Expect(testutil.ToFloat64(requestCountMetric.WithLabelValues(http.MethodGet, "/api/watchdog/v1/best", "200"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(requestCountMetric.WithLabelValues(http.MethodGet, "/api/watchdog/v1/best", "400"))).To(Equal(1.0))
}

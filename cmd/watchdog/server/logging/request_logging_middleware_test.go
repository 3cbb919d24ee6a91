package logging

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"
	"k8s.io/klog/v2"
)

func TestRequestLoggingMiddlewarePassesThrough(t *testing.T) {
	RegisterTestingT(t)

	handler := RequestLoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/best?zone=eu", nil))

	Expect(rec.Code).To(Equal(http.StatusTeapot))
	Expect(rec.Body.String()).To(Equal(`{"ok":true}`))
}

func TestLoggingWriterCapturesResponse(t *testing.T) {
	RegisterTestingT(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	writer := NewLoggingWriter(klog.Background(), rec, req, NewJSONLogFormatter())

	_, err := writer.Write([]byte("part1"))
	Expect(err).NotTo(HaveOccurred())
	_, err = writer.Write([]byte("part2"))
	Expect(err).NotTo(HaveOccurred())

	Expect(writer.responseStatus).To(Equal(http.StatusOK))
	Expect(string(writer.responseBody)).To(Equal("part1part2"))

	msg, err := writer.prepareResponseLog("1ms")
	Expect(err).NotTo(HaveOccurred())

	var out map[string]interface{}
	Expect(json.Unmarshal([]byte(msg), &out)).To(Succeed())
	Expect(out).To(HaveKeyWithValue("response_status", BeNumerically("==", http.StatusOK)))
	Expect(out).To(HaveKeyWithValue("elapsed", "1ms"))
}

func TestJSONRequestLog(t *testing.T) {
	RegisterTestingT(t)

	req := httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/servers", nil)
	msg, err := NewJSONLogFormatter().FormatRequestLog(klog.Background(), req)
	Expect(err).NotTo(HaveOccurred())

	var out map[string]interface{}
	Expect(json.Unmarshal([]byte(msg), &out)).To(Succeed())
	Expect(out).To(HaveKeyWithValue("request_method", http.MethodGet))
	Expect(out).To(HaveKeyWithValue("request_url", "/api/watchdog/v1/servers"))
}

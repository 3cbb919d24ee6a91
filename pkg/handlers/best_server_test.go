package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/api/presenters"
	"github.com/openshift-online/watchdog/pkg/logger"
	"github.com/openshift-online/watchdog/pkg/services"
)

type fakeStates struct {
	alive map[string][]api.ServerState
}

func (f *fakeStates) AliveByZone(zone string) []api.ServerState {
	return f.alive[zone]
}

func (f *fakeStates) Snapshot() api.ServerStateList {
	list := api.ServerStateList{}
	for _, states := range f.alive {
		list = append(list, states...)
	}
	return list
}

func newHandler() *bestServerHandler {
	metrics := func(connections float64) *api.Metrics {
		return &api.Metrics{ConnectionAmount: connections, TrafficAmountBytes1m: 500, IfaceBytesCap: 1000, CPULoad1m: 0.5}
	}
	return NewBestServerHandler(services.NewBestServerService(&fakeStates{
		alive: map[string][]api.ServerState{
			"eu": {
				{Name: "edge-busy", Zone: "eu", IsAlive: true, Penalty: 1.0, Metrics: metrics(100)},
				{Name: "edge-broken", Zone: "eu", IsAlive: true, Penalty: 1.0},
				{Name: "edge-idle", Zone: "eu", IsAlive: true, Penalty: 1.0, Metrics: metrics(1)},
			},
		},
	}))
}

func TestBestServerList(t *testing.T) {
	RegisterTestingT(t)

	req := httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/best?zone=eu", nil)
	rec := httptest.NewRecorder()
	newHandler().List(rec, req)

	Expect(rec.Code).To(Equal(http.StatusOK))
	Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

	var body presenters.BestServerList
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Kind).To(Equal("BestServerList"))
	Expect(body.Zone).To(Equal("eu"))
	Expect(body.Items).To(HaveLen(3))
	Expect(body.Items[0].Name).To(Equal("edge-idle"))
	Expect(body.Items[1].Name).To(Equal("edge-busy"))
	Expect(*body.Items[1].Score).To(BeNumerically("~", 40.3, 1e-9))
	Expect(body.Items[2].Name).To(Equal("edge-broken"))
	Expect(body.Items[2].Score).To(BeNil())
}

func TestBestServerListUnknownZone(t *testing.T) {
	RegisterTestingT(t)

	req := httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/best?zone=asia", nil)
	rec := httptest.NewRecorder()
	newHandler().List(rec, req)

	Expect(rec.Code).To(Equal(http.StatusOK))
	Expect(rec.Body.String()).To(MatchJSON(`{"kind":"BestServerList","zone":"asia","items":[]}`))
}

func TestBestServerListRequiresZone(t *testing.T) {
	RegisterTestingT(t)

	ctx := logger.WithOpID(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/best", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	newHandler().List(rec, req)

	Expect(rec.Code).To(Equal(http.StatusBadRequest))
	var body api.Error
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Kind).To(Equal("Error"))
	Expect(body.Code).To(Equal("watchdog-3"))
	Expect(body.Reason).To(Equal("zone query parameter is required"))
	Expect(body.OperationID).To(Equal(logger.GetOperationID(ctx)))
}

func TestServerStates(t *testing.T) {
	RegisterTestingT(t)

	req := httptest.NewRequest(http.MethodGet, "/api/watchdog/v1/servers", nil)
	rec := httptest.NewRecorder()
	newHandler().States(rec, req)

	Expect(rec.Code).To(Equal(http.StatusOK))
	var body presenters.ServerStateList
	Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Total).To(Equal(3))
}

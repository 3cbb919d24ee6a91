package handlers

import (
	"net/http"

	"github.com/openshift-online/watchdog/pkg/api/presenters"
	"github.com/openshift-online/watchdog/pkg/errors"
	"github.com/openshift-online/watchdog/pkg/services"
)

type bestServerHandler struct {
	service services.BestServerService
}

func NewBestServerHandler(service services.BestServerService) *bestServerHandler {
	return &bestServerHandler{service: service}
}

// List serves GET /best?zone=<zone>, alive servers of the zone best first.
func (h bestServerHandler) List(w http.ResponseWriter, r *http.Request) {
	cfg := &handlerConfig{
		Validate: []validate{
			validateQueryNotEmpty(r, "zone"),
		},
		Action: func() (interface{}, *errors.ServiceError) {
			zone := r.URL.Query().Get("zone")
			ranked, err := h.service.Best(r.Context(), zone)
			if err != nil {
				return nil, err
			}
			return presenters.PresentBestServers(zone, ranked), nil
		},
	}

	handleGet(w, r, cfg)
}

// States serves GET /servers, the liveness view of every registered server.
func (h bestServerHandler) States(w http.ResponseWriter, r *http.Request) {
	cfg := &handlerConfig{
		Action: func() (interface{}, *errors.ServiceError) {
			return presenters.PresentServerStates(h.service.States(r.Context())), nil
		},
	}

	handleGet(w, r, cfg)
}

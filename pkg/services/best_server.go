package services

import (
	"context"

	"k8s.io/klog/v2"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/detector"
	"github.com/openshift-online/watchdog/pkg/errors"
	"github.com/openshift-online/watchdog/pkg/ranking"
)

// StateReader is the read side of the liveness state table.
type StateReader interface {
	AliveByZone(zone string) []api.ServerState
	Snapshot() api.ServerStateList
}

var _ StateReader = &detector.StateTable{}

// BestServerService answers "which servers in this zone should take load, best first".
// It reads snapshots only, ingestion failures never surface here.
type BestServerService interface {
	Best(ctx context.Context, zone string) (api.RankedServerList, *errors.ServiceError)
	States(ctx context.Context) api.ServerStateList
}

func NewBestServerService(states StateReader) BestServerService {
	return &bestServerService{states: states}
}

var _ BestServerService = &bestServerService{}

type bestServerService struct {
	states StateReader
}

func (s *bestServerService) Best(ctx context.Context, zone string) (api.RankedServerList, *errors.ServiceError) {
	if err := ValidateZone(zone); err != nil {
		return nil, errors.Validation("%s", err)
	}

	ranked := ranking.Rank(s.states.AliveByZone(zone))
	klog.FromContext(ctx).V(4).Info("Ranked alive servers", "zone", zone, "count", len(ranked))
	return ranked, nil
}

func (s *bestServerService) States(ctx context.Context) api.ServerStateList {
	return s.states.Snapshot()
}

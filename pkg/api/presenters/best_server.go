package presenters

import (
	"math"

	"github.com/openshift-online/watchdog/pkg/api"
)

type BestServer struct {
	Name string `json:"name"`
	Zone string `json:"zone"`
	// Score is omitted for servers whose metrics cannot be scored.
	Score   *float64 `json:"score,omitempty"`
	Penalty float64  `json:"penalty"`
}

type BestServerList struct {
	Kind  string       `json:"kind"`
	Zone  string       `json:"zone"`
	Items []BestServer `json:"items"`
}

// PresentBestServers keeps the ranking order, best server first.
func PresentBestServers(zone string, ranked api.RankedServerList) BestServerList {
	items := make([]BestServer, 0, len(ranked))
	for _, r := range ranked {
		item := BestServer{
			Name:    r.State.Name,
			Zone:    r.State.Zone,
			Penalty: r.State.Penalty,
		}
		if !math.IsInf(r.Score, 0) && !math.IsNaN(r.Score) {
			score := r.Score
			item.Score = &score
		}
		items = append(items, item)
	}
	return BestServerList{
		Kind:  ObjectKind(ranked),
		Zone:  zone,
		Items: items,
	}
}

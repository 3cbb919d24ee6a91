// Package ranking scores server states by load and orders them best first.
//
// A state is scored as
//
//	penalty × (0.4×connections + 0.4×(traffic/capacity) + 0.2×cpu)
//
// where a lower score is a less loaded candidate. States that cannot be scored
// get +Inf and always sort after every scorable state.
package ranking

import (
	"math"
	"sort"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/constants"
)

// Valid reports whether state carries a metrics snapshot that can be scored.
func Valid(state api.ServerState) bool {
	if state.Metrics == nil {
		return false
	}
	if !finite(state.Penalty) {
		return false
	}
	m := state.Metrics
	if !finite(m.ConnectionAmount) || !finite(m.TrafficAmountBytes1m) || !finite(m.IfaceBytesCap) || !finite(m.CPULoad1m) {
		return false
	}
	return m.IfaceBytesCap > 0
}

// Score returns the load score of state, +Inf when the state is not valid.
func Score(state api.ServerState) float64 {
	if !Valid(state) {
		return math.Inf(1)
	}
	m := state.Metrics
	return state.Penalty * (constants.ConnectionWeight*m.ConnectionAmount +
		constants.TrafficWeight*(m.TrafficAmountBytes1m/m.IfaceBytesCap) +
		constants.CPUWeight*m.CPULoad1m)
}

// Rank scores every state and returns them ordered by ascending score.
// The sort is stable, equal scores keep the order of states. The states are not modified.
func Rank(states []api.ServerState) api.RankedServerList {
	ranked := make(api.RankedServerList, 0, len(states))
	for _, s := range states {
		ranked = append(ranked, api.RankedServer{
			State: s.Copy(),
			Score: Score(s),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})
	return ranked
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

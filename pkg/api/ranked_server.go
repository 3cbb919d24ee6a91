package api

// RankedServer pairs a state snapshot with the score computed for it.
// Invalid states carry a score of +Inf.
type RankedServer struct {
	State ServerState
	Score float64
}

type RankedServerList []RankedServer

// Names returns the server names in ranking order.
func (l RankedServerList) Names() []string {
	names := make([]string, 0, len(l))
	for _, r := range l {
		names = append(names, r.State.Name)
	}
	return names
}

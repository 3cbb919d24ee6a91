package api

import "gorm.io/gorm"

// Server is a row of the static server registry. The registry is owned by operators,
// the watchdog only reads it once at startup to seed the liveness state table.
type Server struct {
	Meta

	// Name must be unique, heartbeats are matched to registry entries by name.
	Name string `gorm:"uniqueIndex"`
	Zone string
}

type ServerList []*Server
type ServerIndex map[string]*Server

func (l ServerList) Index() ServerIndex {
	index := ServerIndex{}
	for _, o := range l {
		index[o.Name] = o
	}
	return index
}

func (s *Server) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

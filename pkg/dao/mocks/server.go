package mocks

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/dao"
)

var _ dao.ServerDao = &serverDaoMock{}

type serverDaoMock struct {
	servers api.ServerList
	err     error
}

func NewServerDao(servers ...*api.Server) *serverDaoMock {
	return &serverDaoMock{servers: servers}
}

// NewFailingServerDao returns a mock whose every call fails with err.
func NewFailingServerDao(err error) *serverDaoMock {
	return &serverDaoMock{err: err}
}

func (d *serverDaoMock) Get(ctx context.Context, id string) (*api.Server, error) {
	if d.err != nil {
		return nil, d.err
	}
	for _, server := range d.servers {
		if server.ID == id {
			return server, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *serverDaoMock) FindByName(ctx context.Context, name string) (*api.Server, error) {
	if d.err != nil {
		return nil, d.err
	}
	for _, server := range d.servers {
		if server.Name == name {
			return server, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (d *serverDaoMock) Create(ctx context.Context, server *api.Server) (*api.Server, error) {
	if d.err != nil {
		return nil, d.err
	}
	for _, s := range d.servers {
		if s.Name == server.Name {
			return nil, fmt.Errorf("duplicate key value violates unique constraint: %s", server.Name)
		}
	}
	if server.ID == "" {
		server.ID = api.NewID()
	}
	d.servers = append(d.servers, server)
	return server, nil
}

func (d *serverDaoMock) All(ctx context.Context) (api.ServerList, error) {
	if d.err != nil {
		return nil, d.err
	}
	servers := append(api.ServerList{}, d.servers...)
	sort.Slice(servers, func(i, j int) bool {
		return servers[i].Name < servers[j].Name
	})
	return servers, nil
}

package services

import (
	"context"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/dao"
	"github.com/openshift-online/watchdog/pkg/errors"
)

// ServerService is the read side of the server registry used at startup, plus Create for seeding.
type ServerService interface {
	Get(ctx context.Context, id string) (*api.Server, *errors.ServiceError)
	FindByName(ctx context.Context, name string) (*api.Server, *errors.ServiceError)
	Create(ctx context.Context, server *api.Server) (*api.Server, *errors.ServiceError)
	All(ctx context.Context) (api.ServerList, *errors.ServiceError)
}

func NewServerService(serverDao dao.ServerDao) ServerService {
	return &sqlServerService{
		serverDao: serverDao,
	}
}

var _ ServerService = &sqlServerService{}

type sqlServerService struct {
	serverDao dao.ServerDao
}

func (s *sqlServerService) Get(ctx context.Context, id string) (*api.Server, *errors.ServiceError) {
	server, err := s.serverDao.Get(ctx, id)
	if err != nil {
		return nil, handleGetError("Server", "id", id, err)
	}
	return server, nil
}

func (s *sqlServerService) FindByName(ctx context.Context, name string) (*api.Server, *errors.ServiceError) {
	server, err := s.serverDao.FindByName(ctx, name)
	if err != nil {
		return nil, handleGetError("Server", "name", name, err)
	}
	return server, nil
}

func (s *sqlServerService) Create(ctx context.Context, server *api.Server) (*api.Server, *errors.ServiceError) {
	if err := ValidateServer(server); err != nil {
		return nil, errors.Validation("Invalid server: %s", err)
	}

	server, err := s.serverDao.Create(ctx, server)
	if err != nil {
		return nil, handleCreateError("Server", err)
	}
	return server, nil
}

func (s *sqlServerService) All(ctx context.Context) (api.ServerList, *errors.ServiceError) {
	servers, err := s.serverDao.All(ctx)
	if err != nil {
		return nil, errors.GeneralError("Unable to list servers: %s", err)
	}
	return servers, nil
}

package dao

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/openshift-online/watchdog/pkg/api"
	"github.com/openshift-online/watchdog/pkg/db"
)

// ServerDao reads the static server registry. The watchdog itself only lists it,
// Create exists for operators tooling and tests.
type ServerDao interface {
	Get(ctx context.Context, id string) (*api.Server, error)
	FindByName(ctx context.Context, name string) (*api.Server, error)
	Create(ctx context.Context, server *api.Server) (*api.Server, error)
	All(ctx context.Context) (api.ServerList, error)
}

var _ ServerDao = &sqlServerDao{}

type sqlServerDao struct {
	sessionFactory *db.SessionFactory
}

func NewServerDao(sessionFactory *db.SessionFactory) ServerDao {
	return &sqlServerDao{sessionFactory: sessionFactory}
}

func (d *sqlServerDao) Get(ctx context.Context, id string) (*api.Server, error) {
	g2 := (*d.sessionFactory).New(ctx)
	var server api.Server
	if err := g2.Take(&server, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

func (d *sqlServerDao) FindByName(ctx context.Context, name string) (*api.Server, error) {
	g2 := (*d.sessionFactory).New(ctx)
	var server api.Server
	if err := g2.Take(&server, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &server, nil
}

func (d *sqlServerDao) Create(ctx context.Context, server *api.Server) (*api.Server, error) {
	start := time.Now()
	g2 := (*d.sessionFactory).New(ctx)
	err := g2.Omit(clause.Associations).Create(server).Error
	db.UpdateQueryMetrics("create", err, start)
	if err != nil {
		return nil, err
	}
	return server, nil
}

func (d *sqlServerDao) All(ctx context.Context) (api.ServerList, error) {
	start := time.Now()
	g2 := (*d.sessionFactory).New(ctx)
	servers := api.ServerList{}
	err := g2.Order("name").Find(&servers).Error
	db.UpdateQueryMetrics("list", err, start)
	if err != nil {
		return nil, err
	}
	return servers, nil
}

package repositories

import "github.com/vsinha/factoryplan/pkg/domain/entities"

// DemandRepository provides access to requested output rates
type DemandRepository interface {
	GetDemands() (entities.DemandList, error)
	LoadDemands(demands []*entities.Demand) error
}

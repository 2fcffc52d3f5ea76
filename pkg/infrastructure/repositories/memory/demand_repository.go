package memory

import (
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// DemandRepository provides in-memory demand storage
type DemandRepository struct {
	demands entities.DemandList
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		demands: entities.DemandList{},
	}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemands appends demands into the repository in request order
func (r *DemandRepository) LoadDemands(demands []*entities.Demand) error {
	for _, demand := range demands {
		r.demands = append(r.demands, *demand)
	}
	return nil
}

// GetDemands returns a copy of all requested outputs
func (r *DemandRepository) GetDemands() (entities.DemandList, error) {
	demands := make(entities.DemandList, len(r.demands))
	copy(demands, r.demands)
	return demands, nil
}

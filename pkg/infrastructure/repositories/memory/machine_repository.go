package memory

import (
	"github.com/vsinha/factoryplan/pkg/domain/entities"
	"github.com/vsinha/factoryplan/pkg/domain/repositories"
)

// MachineRepository provides in-memory machine power storage
type MachineRepository struct {
	power entities.MachinePowerMap
}

// NewMachineRepository creates a new in-memory machine repository
func NewMachineRepository() *MachineRepository {
	return &MachineRepository{
		power: entities.MachinePowerMap{},
	}
}

// Verify interface compliance
var _ repositories.MachineRepository = (*MachineRepository)(nil)

// LoadMachines merges power draws into the repository
func (r *MachineRepository) LoadMachines(power entities.MachinePowerMap) error {
	for name, draw := range power {
		r.power[name] = draw
	}
	return nil
}

// MachinePower returns a copy of the machine power map
func (r *MachineRepository) MachinePower() entities.MachinePowerMap {
	power := make(entities.MachinePowerMap, len(r.power))
	for name, draw := range r.power {
		power[name] = draw
	}
	return power
}

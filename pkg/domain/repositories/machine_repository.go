package repositories

import "github.com/vsinha/factoryplan/pkg/domain/entities"

// MachineRepository provides access to machine power draw data
type MachineRepository interface {
	MachinePower() entities.MachinePowerMap
	LoadMachines(power entities.MachinePowerMap) error
}

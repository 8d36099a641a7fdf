package entity

import "time"

// WaveStrategy estrategia de agrupación de una ola.
type WaveStrategy string

// Estrategias de ola.
const (
	WaveZoneBased     WaveStrategy = "zone_based"
	WavePriorityBased WaveStrategy = "priority_based"
	WaveShortestPath  WaveStrategy = "shortest_path"
	WaveProductFamily WaveStrategy = "product_family"
)

// WaveStrategies lista cerrada de estrategias soportadas.
var WaveStrategies = []WaveStrategy{WaveZoneBased, WavePriorityBased, WaveShortestPath, WaveProductFamily}

// Valid indica si la estrategia pertenece a la lista cerrada.
func (s WaveStrategy) Valid() bool {
	for _, v := range WaveStrategies {
		if v == s {
			return true
		}
	}
	return false
}

// WaveStatus estado de la ola: planning → released → in_progress → completed; cancelled desde cualquier no terminal.
type WaveStatus string

// Estados de la ola.
const (
	WavePlanning   WaveStatus = "planning"
	WaveReleased   WaveStatus = "released"
	WaveInProgress WaveStatus = "in_progress"
	WaveCompleted  WaveStatus = "completed"
	WaveCancelled  WaveStatus = "cancelled"
)

// Terminal indica si la ola ya no admite transiciones.
func (s WaveStatus) Terminal() bool {
	return s == WaveCompleted || s == WaveCancelled
}

var waveTransitions = map[WaveStatus][]WaveStatus{
	WavePlanning:   {WaveReleased, WaveCancelled},
	WaveReleased:   {WaveInProgress, WaveCompleted, WaveCancelled},
	WaveInProgress: {WaveCompleted, WaveCancelled},
}

// CanTransition indica si el cambio de estado es válido.
func (s WaveStatus) CanTransition(to WaveStatus) bool {
	for _, v := range waveTransitions[s] {
		if v == to {
			return true
		}
	}
	return false
}

// Wave lote de pedidos liberados juntos.
type Wave struct {
	ID               string
	WarehouseID      string
	AdminID          string
	Strategy         WaveStrategy
	Status           WaveStatus
	Priority         int
	MaxOrders        int
	MaxItems         int
	PlannedStartTime *time.Time
	ActualStartTime  *time.Time
	ActualEndTime    *time.Time
	TotalOrders      int
	TotalItems       int
	CancelReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

package entity

import "time"

// Warehouse bodega. IsMain marca la bodega usada cuando la petición no indica otra.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	IsMain    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ZoneType clasifica las zonas de la bodega según su accesibilidad.
type ZoneType string

// Tipos de zona.
const (
	ZonePicking   ZoneType = "picking"
	ZoneStorage   ZoneType = "storage"
	ZoneReceiving ZoneType = "receiving"
	ZoneOther     ZoneType = "other"
)

// Priority devuelve el rango de la zona: picking=1 < storage=2 < receiving=3 < resto=4.
func (z ZoneType) Priority() int {
	switch z {
	case ZonePicking:
		return 1
	case ZoneStorage:
		return 2
	case ZoneReceiving:
		return 3
	default:
		return 4
	}
}

// Zone agrupa ubicaciones de una bodega.
type Zone struct {
	ID          string
	WarehouseID string
	Name        string
	ZoneType    ZoneType
}

// Location posición física (pasillo/bahía/nivel/posición) dentro de una zona.
// Las coordenadas se guardan como texto; la ruta las interpreta como enteros.
type Location struct {
	ID          string
	WarehouseID string
	ZoneID      string
	Code        string
	Aisle       string
	Bay         string
	Level       string
	Position    string
	Active      bool
	Zone        *Zone
}

// ZoneType devuelve el tipo de zona o ZoneOther si no se cargó la zona.
func (l *Location) ZoneType() ZoneType {
	if l == nil || l.Zone == nil {
		return ZoneOther
	}
	return l.Zone.ZoneType
}

// Package layout lee la descripción YAML de una bodega (zonas, ubicaciones, stock inicial y pedidos de prueba)
// y la vuelca como script SQL idempotente o directamente sobre el almacén en memoria.
package layout

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// Layout raíz del archivo YAML.
type Layout struct {
	Warehouses []Warehouse `yaml:"warehouses"`
	Stock      []Stock     `yaml:"stock"`
	Orders     []Order     `yaml:"orders"`
}

// Warehouse bodega con sus zonas.
type Warehouse struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Main    bool   `yaml:"main"`
	Zones   []Zone `yaml:"zones"`
}

// Zone zona con sus ubicaciones.
type Zone struct {
	ID        string     `yaml:"id"`
	Name      string     `yaml:"name"`
	Type      string     `yaml:"type"`
	Locations []Location `yaml:"locations"`
}

// Location ubicación física. Active nulo = activa.
type Location struct {
	ID       string `yaml:"id"`
	Code     string `yaml:"code"`
	Aisle    string `yaml:"aisle"`
	Bay      string `yaml:"bay"`
	Level    string `yaml:"level"`
	Position string `yaml:"position"`
	Active   *bool  `yaml:"active"`
}

// Stock existencia inicial. Fechas en formato 2006-01-02 o RFC3339.
type Stock struct {
	ProductID    string `yaml:"product_id"`
	LocationID   string `yaml:"location_id"`
	Size         string `yaml:"size"`
	BatchNumber  string `yaml:"batch_number"`
	Amount       int    `yaml:"amount"`
	UnitCost     string `yaml:"unit_cost"`
	ReceivedDate string `yaml:"received_date"`
	ExpiryDate   string `yaml:"expiry_date"`
}

// Order pedido de prueba tipo fulfillment.
type Order struct {
	ID          string      `yaml:"id"`
	WarehouseID string      `yaml:"warehouse_id"`
	Status      string      `yaml:"status"`
	Priority    int         `yaml:"priority"`
	Lines       []OrderLine `yaml:"lines"`
}

// OrderLine línea del pedido.
type OrderLine struct {
	ProductID string `yaml:"product_id"`
	Quantity  int    `yaml:"quantity"`
	Size      string `yaml:"size"`
}

// Parse decodifica el YAML. encoding "latin1" (o "iso-8859-1") convierte la entrada a UTF-8 antes de decodificar.
func Parse(r io.Reader, encoding string) (*Layout, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("parse layout: codificación %q no soportada", encoding)
	}
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Validate revisa referencias y cantidades antes de generar nada.
func (l *Layout) Validate() error {
	locations := map[string]string{} // location → warehouse
	warehouses := map[string]bool{}
	for _, w := range l.Warehouses {
		if w.ID == "" {
			return fmt.Errorf("layout: bodega sin id")
		}
		if warehouses[w.ID] {
			return fmt.Errorf("layout: bodega %s duplicada", w.ID)
		}
		warehouses[w.ID] = true
		for _, z := range w.Zones {
			if z.ID == "" {
				return fmt.Errorf("layout: zona sin id en bodega %s", w.ID)
			}
			switch entity.ZoneType(z.zoneType()) {
			case entity.ZonePicking, entity.ZoneStorage, entity.ZoneReceiving, entity.ZoneOther:
			default:
				return fmt.Errorf("layout: zona %s: tipo %q desconocido", z.ID, z.Type)
			}
			for _, loc := range z.Locations {
				if loc.ID == "" {
					return fmt.Errorf("layout: ubicación sin id en zona %s", z.ID)
				}
				if _, dup := locations[loc.ID]; dup {
					return fmt.Errorf("layout: ubicación %s duplicada", loc.ID)
				}
				locations[loc.ID] = w.ID
			}
		}
	}
	keys := map[entity.StockKey]bool{}
	for i, s := range l.Stock {
		if _, ok := locations[s.LocationID]; !ok {
			return fmt.Errorf("layout: stock[%d]: ubicación %q no existe", i, s.LocationID)
		}
		if s.ProductID == "" || s.Amount <= 0 {
			return fmt.Errorf("layout: stock[%d]: producto y cantidad > 0 requeridos", i)
		}
		if _, err := s.cost(); err != nil {
			return fmt.Errorf("layout: stock[%d]: %w", i, err)
		}
		if _, _, err := s.dates(); err != nil {
			return fmt.Errorf("layout: stock[%d]: %w", i, err)
		}
		if keys[s.key()] {
			return fmt.Errorf("layout: stock[%d]: fila duplicada", i)
		}
		keys[s.key()] = true
	}
	for _, o := range l.Orders {
		if o.ID == "" || len(o.Lines) == 0 {
			return fmt.Errorf("layout: pedido sin id o sin líneas")
		}
		if o.WarehouseID != "" && !warehouses[o.WarehouseID] {
			return fmt.Errorf("layout: pedido %s: bodega %q no existe", o.ID, o.WarehouseID)
		}
		for _, ln := range o.Lines {
			if ln.ProductID == "" || ln.Quantity <= 0 {
				return fmt.Errorf("layout: pedido %s: línea inválida", o.ID)
			}
		}
	}
	return nil
}

func (z Zone) zoneType() string {
	if z.Type == "" {
		return string(entity.ZoneOther)
	}
	return strings.ToLower(z.Type)
}

func (loc Location) active() bool {
	return loc.Active == nil || *loc.Active
}

func (o Order) status() string {
	if o.Status == "" {
		return entity.OrderStatusPending
	}
	return o.Status
}

func (s Stock) key() entity.StockKey {
	return entity.StockKey{ProductID: s.ProductID, LocationID: s.LocationID, Size: s.Size, BatchNumber: s.BatchNumber}
}

// id determinista para que volver a sembrar no duplique filas.
func (s Stock) id() string {
	name := strings.Join([]string{s.ProductID, s.LocationID, s.Size, s.BatchNumber}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func (s Stock) cost() (decimal.Decimal, error) {
	if s.UnitCost == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s.UnitCost)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha %q inválida", v)
}

// dates devuelve received (cero si no se indicó) y expiry (nil si no se indicó).
func (s Stock) dates() (time.Time, *time.Time, error) {
	var received time.Time
	var expiry *time.Time
	if s.ReceivedDate != "" {
		t, err := parseDate(s.ReceivedDate)
		if err != nil {
			return received, nil, err
		}
		received = t
	}
	if s.ExpiryDate != "" {
		t, err := parseDate(s.ExpiryDate)
		if err != nil {
			return received, nil, err
		}
		expiry = &t
	}
	return received, expiry, nil
}

func (l *Layout) locationWarehouse(locationID string) string {
	for _, w := range l.Warehouses {
		for _, z := range w.Zones {
			for _, loc := range z.Locations {
				if loc.ID == locationID {
					return w.ID
				}
			}
		}
	}
	return ""
}

package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// WriteSQL escribe un script idempotente (ON CONFLICT DO NOTHING) para el esquema de migrations/.
func (l *Layout) WriteSQL(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintln(b, "-- Generado por seed_layout. Idempotente.")
	fmt.Fprintln(b, "BEGIN;")
	for _, wh := range l.Warehouses {
		fmt.Fprintf(b, "INSERT INTO warehouses (id, name, address, is_main) VALUES (%s, %s, %s, %t) ON CONFLICT (id) DO NOTHING;\n",
			quote(wh.ID), quote(wh.Name), quote(wh.Address), wh.Main)
		for _, z := range wh.Zones {
			fmt.Fprintf(b, "INSERT INTO zones (id, warehouse_id, name, zone_type) VALUES (%s, %s, %s, %s) ON CONFLICT (id) DO NOTHING;\n",
				quote(z.ID), quote(wh.ID), quote(z.Name), quote(z.zoneType()))
			for _, loc := range z.Locations {
				fmt.Fprintf(b, "INSERT INTO locations (id, warehouse_id, zone_id, code, aisle, bay, level, position, active) VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %t) ON CONFLICT (id) DO NOTHING;\n",
					quote(loc.ID), quote(wh.ID), quote(z.ID), quote(loc.Code), quote(loc.Aisle), quote(loc.Bay), quote(loc.Level), quote(loc.Position), loc.active())
			}
		}
	}
	for _, s := range l.Stock {
		cost, _ := s.cost()
		received, expiry, _ := s.dates()
		receivedSQL := "now()"
		if !received.IsZero() {
			receivedSQL = quote(received.Format(time.RFC3339))
		}
		expirySQL := "NULL"
		if expiry != nil {
			expirySQL = quote(expiry.Format(time.RFC3339))
		}
		fmt.Fprintf(b, "INSERT INTO stock (id, product_id, warehouse_id, location_id, size, batch_number, amount, reserved_quantity, unit_cost, received_date, expiry_date) VALUES (%s, %s, %s, %s, %s, %s, %d, 0, %s, %s, %s) ON CONFLICT DO NOTHING;\n",
			quote(s.id()), quote(s.ProductID), quote(l.locationWarehouse(s.LocationID)), quote(s.LocationID), quote(s.Size), quote(s.BatchNumber),
			s.Amount, cost.String(), receivedSQL, expirySQL)
	}
	for _, o := range l.Orders {
		warehouse := "NULL"
		if o.WarehouseID != "" {
			warehouse = quote(o.WarehouseID)
		}
		fmt.Fprintf(b, "INSERT INTO orders (id, warehouse_id, order_type, status, priority) VALUES (%s, %s, 'fulfillment', %s, %d) ON CONFLICT (id) DO NOTHING;\n",
			quote(o.ID), warehouse, quote(o.status()), o.Priority)
		for _, ln := range o.Lines {
			fmt.Fprintf(b, "INSERT INTO order_products (order_id, product_id, quantity, size) SELECT %s, %s, %d, %s WHERE NOT EXISTS (SELECT 1 FROM order_products WHERE order_id = %s AND product_id = %s AND size = %s);\n",
				quote(o.ID), quote(ln.ProductID), ln.Quantity, quote(ln.Size), quote(o.ID), quote(ln.ProductID), quote(ln.Size))
		}
	}
	fmt.Fprintln(b, "COMMIT;")
	return b.Flush()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Summary resumen de una línea para logs.
func (l *Layout) Summary() string {
	zones, locations := 0, 0
	for _, w := range l.Warehouses {
		zones += len(w.Zones)
		for _, z := range w.Zones {
			locations += len(z.Locations)
		}
	}
	return strconv.Itoa(len(l.Warehouses)) + " bodegas, " + strconv.Itoa(zones) + " zonas, " +
		strconv.Itoa(locations) + " ubicaciones, " + strconv.Itoa(len(l.Stock)) + " filas de stock, " +
		strconv.Itoa(len(l.Orders)) + " pedidos"
}

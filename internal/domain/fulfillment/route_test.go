package fulfillment_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
	"github.com/jhoicas/wms-fulfillment/internal/domain/fulfillment"
)

func decimalFrom(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func loc(id string, zone entity.ZoneType, aisle, bay, level string) *entity.Location {
	return &entity.Location{
		ID: id, ZoneID: "z-" + string(zone), Aisle: aisle, Bay: bay, Level: level, Active: true,
		Zone: &entity.Zone{ID: "z-" + string(zone), ZoneType: zone},
	}
}

func TestSequenceRoute_ZonaLuegoCoordenadas(t *testing.T) {
	locations := map[string]*entity.Location{
		"recv":   loc("recv", entity.ZoneReceiving, "1", "1", "1"),
		"other":  loc("other", entity.ZoneOther, "1", "1", "1"),
		"st-2":   loc("st-2", entity.ZoneStorage, "2", "1", "1"),
		"pk-10":  loc("pk-10", entity.ZonePicking, "10", "1", "1"),
		"pk-2b3": loc("pk-2b3", entity.ZonePicking, "2", "3", "1"),
		"pk-2b1": loc("pk-2b1", entity.ZonePicking, "2", "1", "4"),
	}
	items := []*entity.PickListItem{
		{ID: "i1", LocationID: "recv", Sequence: 1},
		{ID: "i2", LocationID: "other", Sequence: 2},
		{ID: "i3", LocationID: "st-2", Sequence: 3},
		{ID: "i4", LocationID: "pk-10", Sequence: 4},
		{ID: "i5", LocationID: "pk-2b3", Sequence: 5},
		{ID: "i6", LocationID: "pk-2b1", Sequence: 6},
	}

	out := fulfillment.SequenceRoute(items, locations)

	got := make([]string, 0, len(out))
	for i, it := range out {
		got = append(got, it.ID)
		assert.Equal(t, i+1, it.Sequence)
	}
	// Pasillo numérico: 2 antes que 10 (no lexicográfico).
	assert.Equal(t, []string{"i6", "i5", "i4", "i3", "i1", "i2"}, got)
}

func TestSequenceRoute_EmpatesConservanOrdenPrevio(t *testing.T) {
	locations := map[string]*entity.Location{
		"a": loc("a", entity.ZonePicking, "1", "1", "1"),
		"b": loc("b", entity.ZonePicking, "1", "1", "1"),
	}
	items := []*entity.PickListItem{
		{ID: "x2", LocationID: "b", Sequence: 2},
		{ID: "x1", LocationID: "a", Sequence: 1},
	}

	first := fulfillment.SequenceRoute(items, locations)
	require.Len(t, first, 2)
	assert.Equal(t, "x1", first[0].ID)

	// Determinista: volver a ordenar no cambia nada.
	second := fulfillment.SequenceRoute(first, locations)
	assert.Equal(t, "x1", second[0].ID)
	assert.Equal(t, "x2", second[1].ID)
}

func TestCoordinate(t *testing.T) {
	cases := map[string]int{
		"12":  12,
		"07B": 7,
		"B7":  0,
		"":    0,
		" 3 ": 3,
		"-2":  -2,
	}
	for in, want := range cases {
		assert.Equal(t, want, fulfillment.Coordinate(in), "coordenada %q", in)
	}
}

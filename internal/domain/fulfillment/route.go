package fulfillment

import (
	"sort"
	"strings"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// SequenceRoute ordena los ítems por (prioridad de zona, pasillo, bahía, nivel) y reescribe
// Sequence como 1..N. Los empates conservan el orden previo (secuencia provisional, luego id).
// Ubicaciones ausentes del mapa se tratan como zona "other" con coordenadas 0.
func SequenceRoute(items []*entity.PickListItem, locations map[string]*entity.Location) []*entity.PickListItem {
	out := make([]*entity.PickListItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Sequence != out[j].Sequence {
			return out[i].Sequence < out[j].Sequence
		}
		return out[i].ID < out[j].ID
	})

	keys := make(map[string][4]int, len(out))
	for _, it := range out {
		keys[it.ID] = routeKey(locations[it.LocationID])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := keys[out[i].ID], keys[out[j].ID]
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	for i, it := range out {
		it.Sequence = i + 1
	}
	return out
}

func routeKey(loc *entity.Location) [4]int {
	if loc == nil {
		return [4]int{entity.ZoneOther.Priority(), 0, 0, 0}
	}
	return [4]int{
		loc.ZoneType().Priority(),
		Coordinate(loc.Aisle),
		Coordinate(loc.Bay),
		Coordinate(loc.Level),
	}
}

// Coordinate interpreta el prefijo numérico de una coordenada ("12", "07B" → 7); sin dígitos → 0.
func Coordinate(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		return -n
	}
	return n
}

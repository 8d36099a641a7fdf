package fulfillment

import (
	"sort"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// DefaultBatches número de lotes para estrategias sin agrupación propia.
const DefaultBatches = 3

// PackOrders empaquetado voraz: toma pedidos en orden mientras la suma de unidades sea <= maxItems.
// Se detiene en el primer pedido que desborda; no busca uno posterior que quepa.
func PackOrders(orders []*entity.Order, maxItems int) ([]*entity.Order, int) {
	var selected []*entity.Order
	total := 0
	for _, o := range orders {
		n := o.ItemCount()
		if total+n > maxItems {
			break
		}
		selected = append(selected, o)
		total += n
	}
	return selected, total
}

// ZoneRef zona principal de un pedido.
type ZoneRef struct {
	ID   string
	Type entity.ZoneType
}

// PrimaryZone zona que concentra más unidades disponibles para las líneas del pedido.
// Empates: prioridad de zona y luego id. lotsByLine tiene los lotes candidatos de cada línea.
func PrimaryZone(lotsByLine [][]*entity.LocatedStock) (ZoneRef, bool) {
	units := map[string]int{}
	refs := map[string]ZoneRef{}
	for _, lots := range lotsByLine {
		for _, l := range lots {
			if l.Available() <= 0 {
				continue
			}
			units[l.ZoneID] += l.Available()
			refs[l.ZoneID] = ZoneRef{ID: l.ZoneID, Type: l.ZoneType}
		}
	}
	var best ZoneRef
	found := false
	for id, ref := range refs {
		if !found {
			best, found = ref, true
			continue
		}
		bu, u := units[best.ID], units[id]
		switch {
		case u > bu:
			best = ref
		case u == bu && ref.Type.Priority() < best.Type.Priority():
			best = ref
		case u == bu && ref.Type.Priority() == best.Type.Priority() && id < best.ID:
			best = ref
		}
	}
	return best, found
}

// WaveInput datos que los planificadores necesitan además de los pedidos.
type WaveInput struct {
	PrimaryZones map[string]ZoneRef // orderID → zona
	Batches      int
}

// WavePlanner comportamiento de una estrategia: orden al crear y agrupación al liberar.
type WavePlanner interface {
	Sequence(orders []*entity.Order, in WaveInput) []*entity.Order
	Batch(orders []*entity.Order, in WaveInput) [][]*entity.Order
}

var wavePlanners = map[entity.WaveStrategy]WavePlanner{
	entity.WaveZoneBased:     zonePlanner{},
	entity.WavePriorityBased: priorityPlanner{},
	// shortest_path y product_family: puntos de extensión, usan el lote balanceado por defecto.
	entity.WaveShortestPath:  defaultPlanner{},
	entity.WaveProductFamily: defaultPlanner{},
}

// PlannerFor devuelve el planificador de la estrategia.
func PlannerFor(s entity.WaveStrategy) (WavePlanner, bool) {
	p, ok := wavePlanners[s]
	return p, ok
}

type zonePlanner struct{}

func (zonePlanner) Sequence(orders []*entity.Order, in WaveInput) []*entity.Order {
	out := append([]*entity.Order(nil), orders...)
	sort.SliceStable(out, func(i, j int) bool {
		return zoneLess(in.PrimaryZones[out[i].ID], in.PrimaryZones[out[j].ID])
	})
	return out
}

// Batch un grupo por zona principal, grupos en orden de zona.
func (p zonePlanner) Batch(orders []*entity.Order, in WaveInput) [][]*entity.Order {
	var groups [][]*entity.Order
	index := map[string]int{}
	for _, o := range p.Sequence(orders, in) {
		zid := in.PrimaryZones[o.ID].ID
		i, ok := index[zid]
		if !ok {
			i = len(groups)
			index[zid] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], o)
	}
	return groups
}

func zoneLess(a, b ZoneRef) bool {
	if pa, pb := a.Type.Priority(), b.Type.Priority(); pa != pb {
		return pa < pb
	}
	return a.ID < b.ID
}

type priorityPlanner struct{}

// Sequence prioridad desc, luego antigüedad.
func (priorityPlanner) Sequence(orders []*entity.Order, _ WaveInput) []*entity.Order {
	out := append([]*entity.Order(nil), orders...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Batch una lista por pedido.
func (p priorityPlanner) Batch(orders []*entity.Order, in WaveInput) [][]*entity.Order {
	seq := p.Sequence(orders, in)
	groups := make([][]*entity.Order, 0, len(seq))
	for _, o := range seq {
		groups = append(groups, []*entity.Order{o})
	}
	return groups
}

type defaultPlanner struct{}

func (defaultPlanner) Sequence(orders []*entity.Order, _ WaveInput) []*entity.Order {
	return append([]*entity.Order(nil), orders...)
}

func (defaultPlanner) Batch(orders []*entity.Order, in WaveInput) [][]*entity.Order {
	n := in.Batches
	if n <= 0 {
		n = DefaultBatches
	}
	return BalanceBatches(orders, n)
}

// BalanceBatches reparte pedidos en min(n, len) lotes: mayor cantidad primero al lote más liviano.
// Dentro de cada lote se conserva el orden de entrada; los lotes vacíos se omiten.
func BalanceBatches(orders []*entity.Order, n int) [][]*entity.Order {
	if len(orders) == 0 {
		return nil
	}
	n = min(n, len(orders))
	if n <= 0 {
		n = 1
	}
	pos := make(map[string]int, len(orders))
	for i, o := range orders {
		pos[o.ID] = i
	}
	bySize := append([]*entity.Order(nil), orders...)
	sort.SliceStable(bySize, func(i, j int) bool {
		return bySize[i].ItemCount() > bySize[j].ItemCount()
	})
	batches := make([][]*entity.Order, n)
	loads := make([]int, n)
	for _, o := range bySize {
		target := 0
		for b := 1; b < n; b++ {
			if loads[b] < loads[target] {
				target = b
			}
		}
		batches[target] = append(batches[target], o)
		loads[target] += o.ItemCount()
	}
	out := batches[:0]
	for _, b := range batches {
		if len(b) == 0 {
			continue
		}
		sort.SliceStable(b, func(i, j int) bool { return pos[b[i].ID] < pos[b[j].ID] })
		out = append(out, b)
	}
	return out
}

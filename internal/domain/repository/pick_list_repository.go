package repository

import (
	"context"

	"github.com/jhoicas/wms-fulfillment/internal/domain/entity"
)

// PickListRepository puerto de persistencia de listas de picking y sus ítems.
type PickListRepository interface {
	Create(ctx context.Context, list *entity.PickList) error
	Update(ctx context.Context, list *entity.PickList) error
	Get(ctx context.Context, id string) (*entity.PickList, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PickList, error)
	ListByWave(ctx context.Context, waveID string) ([]*entity.PickList, error)
	// HasActiveForOrder indica si el pedido tiene una lista no terminal (propia o de ola).
	HasActiveForOrder(ctx context.Context, orderID string) (bool, error)

	CreateItem(ctx context.Context, item *entity.PickListItem) error
	UpdateItem(ctx context.Context, item *entity.PickListItem) error
	GetItemForUpdate(ctx context.Context, id string) (*entity.PickListItem, error)
	// ListItems devuelve los ítems ordenados por secuencia e id.
	ListItems(ctx context.Context, pickListID string) ([]*entity.PickListItem, error)
}

// WaveRepository puerto de persistencia de olas.
type WaveRepository interface {
	Create(ctx context.Context, wave *entity.Wave) error
	Update(ctx context.Context, wave *entity.Wave) error
	Get(ctx context.Context, id string) (*entity.Wave, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Wave, error)
}

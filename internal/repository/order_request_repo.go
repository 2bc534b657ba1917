package repository

import (
	"context"

	"cotizador/internal/infra"
	"cotizador/internal/model"
)

// OrderRequestRepository is the append-only ERP order log, newest first.
// Entries are never deduplicated or truncated.
type OrderRequestRepository interface {
	Append(ctx context.Context, req model.OrderRequest) error
	List(ctx context.Context) ([]model.OrderRequest, error)
}

type orderRequestRepo struct {
	kv  infra.KVStore
	key string
}

func NewOrderRequestRepository(kv infra.KVStore, keys Keys) OrderRequestRepository {
	return &orderRequestRepo{kv: kv, key: keys.OrderRequests}
}

func (r *orderRequestRepo) Append(ctx context.Context, req model.OrderRequest) error {
	existing, err := r.List(ctx)
	if err != nil {
		return err
	}
	return writeCollection(ctx, r.kv, r.key, append([]model.OrderRequest{req}, existing...))
}

func (r *orderRequestRepo) List(ctx context.Context) ([]model.OrderRequest, error) {
	return readCollection[model.OrderRequest](ctx, r.kv, r.key)
}

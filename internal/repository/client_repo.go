package repository

import (
	"context"

	"cotizador/internal/infra"
	"cotizador/internal/model"
)

// ClientRepository persists the client registry, newest first.
type ClientRepository interface {
	List(ctx context.Context) ([]model.Client, error)
	ReplaceAll(ctx context.Context, clients []model.Client) error
}

type clientRepo struct {
	kv  infra.KVStore
	key string
}

func NewClientRepository(kv infra.KVStore, keys Keys) ClientRepository {
	return &clientRepo{kv: kv, key: keys.Clients}
}

func (r *clientRepo) List(ctx context.Context) ([]model.Client, error) {
	return readCollection[model.Client](ctx, r.kv, r.key)
}

func (r *clientRepo) ReplaceAll(ctx context.Context, clients []model.Client) error {
	return writeCollection(ctx, r.kv, r.key, clients)
}

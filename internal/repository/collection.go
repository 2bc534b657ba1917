package repository

import (
	"context"
	"encoding/json"
	"errors"

	"cotizador/internal/infra"

	"github.com/rs/zerolog/log"
)

// Keys returns the namespaced storage keys.
type Keys struct {
	SavedQuotes   string
	OrderRequests string
	Clients       string
}

// NewKeys derives every key from one namespace (e.g. "cotizador-v2").
func NewKeys(namespace string) Keys {
	if namespace == "" {
		namespace = "cotizador-v2"
	}
	return Keys{
		SavedQuotes:   namespace + "-saved-quotes",
		OrderRequests: namespace + "-erp-order-queue",
		Clients:       namespace + "-clients",
	}
}

// readCollection loads a JSON array stored under key. A missing key, a
// non-array value or unparseable bytes all read as an empty collection;
// only store I/O errors are returned.
func readCollection[T any](ctx context.Context, kv infra.KVStore, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, infra.ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("corrupt collection in store, reading as empty")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func writeCollection[T any](ctx context.Context, kv infra.KVStore, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, raw)
}

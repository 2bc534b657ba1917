package repository

import (
	"context"

	"cotizador/internal/infra"
	"cotizador/internal/model"
)

// QuoteRepository persists the saved-quotes collection. The collection is read
// and written as a whole; index 0 is the most recently saved quote.
type QuoteRepository interface {
	List(ctx context.Context) ([]model.SavedQuote, error)
	FindByID(ctx context.Context, quoteID string) (*model.SavedQuote, error)
	ReplaceAll(ctx context.Context, quotes []model.SavedQuote) error
}

type quoteRepo struct {
	kv  infra.KVStore
	key string
}

func NewQuoteRepository(kv infra.KVStore, keys Keys) QuoteRepository {
	return &quoteRepo{kv: kv, key: keys.SavedQuotes}
}

func (r *quoteRepo) List(ctx context.Context) ([]model.SavedQuote, error) {
	return readCollection[model.SavedQuote](ctx, r.kv, r.key)
}

// FindByID returns nil (and no error) when the quote does not exist.
func (r *quoteRepo) FindByID(ctx context.Context, quoteID string) (*model.SavedQuote, error) {
	quotes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quotes {
		if quotes[i].QuoteID == quoteID {
			return &quotes[i], nil
		}
	}
	return nil, nil
}

func (r *quoteRepo) ReplaceAll(ctx context.Context, quotes []model.SavedQuote) error {
	return writeCollection(ctx, r.kv, r.key, quotes)
}

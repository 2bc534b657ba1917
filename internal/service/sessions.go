package service

import (
	"sync"

	"cotizador/internal/model"
)

// DraftRegistry hands each seller their own DraftService. Drafts live in
// memory only; a restart discards unsaved work.
type DraftRegistry struct {
	mu       sync.Mutex
	settings DraftSettings
	drafts   map[string]*DraftService
}

func NewDraftRegistry(settings DraftSettings) *DraftRegistry {
	return &DraftRegistry{settings: settings, drafts: make(map[string]*DraftService)}
}

// For returns the actor's draft, creating and initializing it on first use.
func (r *DraftRegistry) For(actor model.Actor) *DraftService {
	userID, _ := attribution(actor)
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.drafts[userID]; ok {
		return d
	}
	d := NewDraftService(r.settings)
	d.Initialize(actor)
	r.drafts[userID] = d
	return d
}

// Len reports how many sessions hold a draft.
func (r *DraftRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}

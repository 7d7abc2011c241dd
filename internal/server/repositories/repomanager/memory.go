package repomanager

import (
	"context"

	"github.com/dmitrijs2005/vidhub/internal/server/repositories/memory"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/subscriptions"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/users"
	"github.com/dmitrijs2005/vidhub/internal/server/repositories/videos"
)

// MemoryRepositoryManager serves every repository from a memory.Store.
// Nothing survives a restart.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager(store *memory.Store) *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: store}
}

// Store exposes the backing store for seeding videos and subscriptions.
func (m *MemoryRepositoryManager) Store() *memory.Store { return m.store }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.store.Users() }

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return m.store.RefreshTokens()
}

func (m *MemoryRepositoryManager) Videos() videos.Repository { return m.store.Videos() }

func (m *MemoryRepositoryManager) Subscriptions() subscriptions.Repository {
	return m.store.Subscriptions()
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(context.Context) error { return nil }

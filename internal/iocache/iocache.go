// Package iocache persists price history and trip scan bookkeeping.
package iocache

import (
	"sync"

	"github.com/farewatch/farewatch/internal/contract"
)

// HistoryStoreManager guards the process-wide history store.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	history      contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the history store, or nil before initialization.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// NewHistoryStoreManager wraps an already opened store.
func NewHistoryStoreManager(store contract.HistoryStore) *HistoryStoreManager {
	return &HistoryStoreManager{history: store}
}

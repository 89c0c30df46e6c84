// Package repository — хранилище кошельков и состояний диалогов.
// Всё живёт в памяти процесса и теряется при рестарте.
package repository

import (
	"sync"

	"github.com/ivanoskov/whalevybe_bot/internal/model"
)

type MemoryRepository struct {
	mu      sync.RWMutex
	wallets map[int64][]model.SavedWallet
	states  map[int64]*model.UserState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		wallets: make(map[int64][]model.SavedWallet),
		states:  make(map[int64]*model.UserState),
	}
}

// AppendWallet добавляет кошелёк в конец списка пользователя и возвращает
// его позицию. Если адрес уже сохранён, возвращает существующую запись,
// а список остаётся без изменений.
func (r *MemoryRepository) AppendWallet(userID int64, wallet *model.SavedWallet) (int, *model.SavedWallet) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.wallets[userID] {
		if w.Address == wallet.Address {
			existing := w
			return -1, &existing
		}
	}

	wallet.GenerateID()
	r.wallets[userID] = append(r.wallets[userID], *wallet)
	return len(r.wallets[userID]) - 1, nil
}

// ListWallets возвращает копию списка кошельков пользователя
func (r *MemoryRepository) ListWallets(userID int64) []model.SavedWallet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.SavedWallet, len(r.wallets[userID]))
	copy(out, r.wallets[userID])
	return out
}

// GetWallet возвращает кошелёк по позиции в списке
func (r *MemoryRepository) GetWallet(userID int64, position int) (model.SavedWallet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.wallets[userID]
	if position < 0 || position >= len(list) {
		return model.SavedWallet{}, false
	}
	return list[position], true
}

// RemoveWallet удаляет кошелёк по позиции. Позиции последующих записей
// сдвигаются на единицу: сохранённые где-либо позиции устаревают.
func (r *MemoryRepository) RemoveWallet(userID int64, position int) (model.SavedWallet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.wallets[userID]
	if position < 0 || position >= len(list) {
		return model.SavedWallet{}, false
	}

	removed := list[position]
	r.wallets[userID] = append(list[:position], list[position+1:]...)
	return removed, true
}

// State возвращает состояние диалога, создавая его при первом обращении
func (r *MemoryRepository) State(userID int64) *model.UserState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[userID]
	if !ok {
		st = model.NewUserState(userID)
		r.states[userID] = st
	}
	return st
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// SavedWallet — сохранённый кошелёк пользователя. В меню кошельки
// адресуются позицией в списке, ID используется только внутри.
type SavedWallet struct {
	ID       string
	UserID   int64
	Address  string
	Nickname string
	SavedAt  time.Time
}

// GenerateID генерирует новый UUID для кошелька, если он еще не установлен
func (w *SavedWallet) GenerateID() {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
}

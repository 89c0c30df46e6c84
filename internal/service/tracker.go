package service

import (
	"strings"
	"time"

	"github.com/ivanoskov/whalevybe_bot/internal/model"
	"github.com/ivanoskov/whalevybe_bot/internal/solana"
)

// Repository определяет интерфейс хранилища, необходимый трекеру
type Repository interface {
	AppendWallet(userID int64, wallet *model.SavedWallet) (int, *model.SavedWallet)
	ListWallets(userID int64) []model.SavedWallet
	GetWallet(userID int64, position int) (model.SavedWallet, bool)
	RemoveWallet(userID int64, position int) (model.SavedWallet, bool)
	State(userID int64) *model.UserState
}

// WalletTracker управляет сохранёнными кошельками и шагами диалога
type WalletTracker struct {
	repo Repository
}

// NewWalletTracker создает новый экземпляр WalletTracker
func NewWalletTracker(repo Repository) *WalletTracker {
	return &WalletTracker{repo: repo}
}

// Step возвращает текущий шаг диалога пользователя
func (s *WalletTracker) Step(userID int64) model.Step {
	return s.repo.State(userID).Step
}

// StartFlow переводит диалог на указанный шаг, очищая промежуточный ввод
func (s *WalletTracker) StartFlow(userID int64, step model.Step) {
	st := s.repo.State(userID)
	st.Reset()
	st.Step = step
}

// ResetFlow возвращает диалог в исходное состояние и отдаёт прежний шаг:
// по нему выбирается меню, в которое вернётся пользователь
func (s *WalletTracker) ResetFlow(userID int64) model.Step {
	st := s.repo.State(userID)
	prev := st.Step
	st.Reset()
	return prev
}

// AddressOutcome — результат ввода адреса кошелька
type AddressOutcome int

const (
	AddressAccepted AddressOutcome = iota
	AddressInvalid
)

// SubmitAddress обрабатывает адрес на шаге StepAwaitingWalletAddress.
// Невалидный адрес не меняет состояние: пользователь может попробовать ещё раз.
func (s *WalletTracker) SubmitAddress(userID int64, text string) AddressOutcome {
	address := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if !solana.IsValidWalletAddress(address) {
		return AddressInvalid
	}

	st := s.repo.State(userID)
	st.Scratch["address"] = address
	st.Step = model.StepAwaitingNickname
	return AddressAccepted
}

// NicknameOutcome — результат ввода никнейма
type NicknameOutcome int

const (
	WalletSaved NicknameOutcome = iota
	NicknameEmpty
	AddressMissing
	DuplicateAddress
)

// NicknameResult описывает исход шага StepAwaitingNickname
type NicknameResult struct {
	Outcome  NicknameOutcome
	Position int
	Wallet   model.SavedWallet
	Existing model.SavedWallet
}

// SubmitNickname завершает сохранение кошелька. Пустой никнейм оставляет
// состояние без изменений (уже введённый адрес переживает повторную
// попытку), остальные исходы сбрасывают диалог.
func (s *WalletTracker) SubmitNickname(userID int64, text string) NicknameResult {
	nickname := strings.TrimSpace(text)
	if nickname == "" {
		return NicknameResult{Outcome: NicknameEmpty}
	}

	st := s.repo.State(userID)
	address := st.Scratch["address"]
	if address == "" {
		// При корректных переходах сюда не попасть, но диалог надо спасать
		st.Reset()
		return NicknameResult{Outcome: AddressMissing}
	}

	wallet := &model.SavedWallet{
		UserID:   userID,
		Address:  address,
		Nickname: nickname,
		SavedAt:  time.Now(),
	}
	position, existing := s.repo.AppendWallet(userID, wallet)
	st.Reset()

	if existing != nil {
		return NicknameResult{Outcome: DuplicateAddress, Existing: *existing}
	}
	return NicknameResult{Outcome: WalletSaved, Position: position, Wallet: *wallet}
}

// Wallets возвращает сохранённые кошельки пользователя
func (s *WalletTracker) Wallets(userID int64) []model.SavedWallet {
	return s.repo.ListWallets(userID)
}

// Wallet возвращает кошелёк по позиции в меню. Позиция разрешается в момент
// вызова: после удаления другого кошелька она могла устареть.
func (s *WalletTracker) Wallet(userID int64, position int) (model.SavedWallet, bool) {
	return s.repo.GetWallet(userID, position)
}

// DeleteWallet удаляет кошелёк по позиции
func (s *WalletTracker) DeleteWallet(userID int64, position int) (model.SavedWallet, bool) {
	return s.repo.RemoveWallet(userID, position)
}

// SetRawView запоминает полезную нагрузку для кнопки "Show more"
func (s *WalletTracker) SetRawView(userID int64, data any, title, menu string) {
	s.repo.State(userID).SetRawView(data, title, menu)
}

// NextRawPage переходит к следующей странице просмотра сырых данных
func (s *WalletTracker) NextRawPage(userID int64) (data any, page int, title, menu string, ok bool) {
	st := s.repo.State(userID)
	if st.RawData == nil {
		return nil, 0, "", "", false
	}
	st.RawPage++
	return st.RawData, st.RawPage, st.RawTitle, st.RawMenu, true
}

package model

// Step описывает текущий шаг диалога с пользователем
type Step int

const (
	StepIdle Step = iota
	StepAwaitingWalletAddress
	StepAwaitingNickname
	StepAwaitingTokenDetails
	StepAwaitingTokenTransfers
	StepAwaitingTokenChart
	StepAwaitingTokenHolders
)

// UserState представляет текущее состояние диалога с пользователем.
// Scratch хранит промежуточный ввод многошаговых сценариев и очищается
// при каждом возврате в StepIdle. Кэш сырых данных живёт отдельно:
// кнопка "Show more" должна работать уже после завершения сценария.
type UserState struct {
	UserID  int64
	Step    Step
	Scratch map[string]string

	RawData  any
	RawPage  int
	RawTitle string
	RawMenu  string
}

func NewUserState(userID int64) *UserState {
	return &UserState{
		UserID:  userID,
		Step:    StepIdle,
		Scratch: make(map[string]string),
	}
}

// Reset возвращает диалог в исходное состояние, не трогая кэш сырых данных
func (s *UserState) Reset() {
	s.Step = StepIdle
	s.Scratch = make(map[string]string)
}

// SetRawView запоминает полезную нагрузку для постраничного просмотра
func (s *UserState) SetRawView(data any, title, menu string) {
	s.RawData = data
	s.RawPage = 0
	s.RawTitle = title
	s.RawMenu = menu
}

package bot

import (
	"encoding/json"
	"html"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ivanoskov/whalevybe_bot/internal/charts"
	"github.com/ivanoskov/whalevybe_bot/internal/format"
	"github.com/ivanoskov/whalevybe_bot/internal/service"
	"github.com/ivanoskov/whalevybe_bot/internal/vybe"
)

// API — часть интерфейса Telegram-клиента, используемая ботом.
// Её реализует *tgbotapi.BotAPI; в тестах подставляется фейк.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api     API
	tracker *service.WalletTracker
	vybe    *vybe.Client
	charts  *charts.ChartGenerator
	logger  *zap.Logger

	// Блокировки по user id: события одного пользователя обрабатываются
	// строго по очереди, разные пользователи друг другу не мешают
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewBot(token string, tracker *service.WalletTracker, client *vybe.Client, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return newBot(api, tracker, client, logger), nil
}

func newBot(api API, tracker *service.WalletTracker, client *vybe.Client, logger *zap.Logger) *Bot {
	return &Bot{
		api:     api,
		tracker: tracker,
		vybe:    client,
		charts:  charts.NewChartGenerator(),
		logger:  logger,
		locks:   make(map[int64]*sync.Mutex),
	}
}

// Start запускает бота в режиме long polling. Каждое обновление
// обрабатывается в отдельной горутине под блокировкой своего пользователя.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		go b.process(update)
	}

	return nil
}

// HandleWebhook - точка входа для обработки входящих webhook-обновлений
func (b *Bot) HandleWebhook(body []byte) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return err
	}

	b.process(update)
	return nil
}

func (b *Bot) process(update tgbotapi.Update) {
	if userID, ok := updateUserID(update); ok {
		lock := b.userLock(userID)
		lock.Lock()
		defer lock.Unlock()
	}
	b.handleUpdate(update)
}

func (b *Bot) userLock(userID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	lock, ok := b.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[userID] = lock
	}
	return lock
}

func updateUserID(update tgbotapi.Update) (int64, bool) {
	if update.Message != nil && update.Message.From != nil {
		return update.Message.From.ID, true
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil && update.CallbackQuery == nil {
		return
	}

	if update.Message != nil && update.Message.IsCommand() {
		b.handleCommand(update.Message)
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}

	b.handleMessage(update.Message)
}

// send отправляет новое сообщение
func (b *Bot) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// sendAndReturn отправляет сообщение и возвращает его ID для последующего
// редактирования (сообщения-заглушки на время сетевого вызова)
func (b *Bot) sendAndReturn(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return sent.MessageID
}

// edit заменяет текст и клавиатуру уже отправленного сообщения
func (b *Bot) edit(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageText(chatID, messageID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to edit message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// answerCallback убирает индикатор загрузки с нажатой кнопки
func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
}

// sendRaw показывает полезную нагрузку неожиданной формы через форматтер
// и запоминает её для кнопки "Show more"
func (b *Bot) sendRaw(userID, chatID int64, messageID int, title string, data any, menu string) {
	b.tracker.SetRawView(userID, data, title, menu)
	b.renderRawPage(chatID, messageID, title, data, 0, menu)
}

func (b *Bot) renderRawPage(chatID int64, messageID int, title string, data any, page int, menu string) {
	text, more := format.Render(data, page)
	keyboard := b.menuKeyboard(menu)
	if more {
		keyboard = withShowMore(keyboard)
	}
	b.edit(chatID, messageID, "<b>"+title+":</b>\n<pre>"+html.EscapeString(text)+"</pre>", &keyboard)
}

// sendError показывает ограниченное по размеру сообщение об ошибке
// и возвращает пользователя в переданное меню
func (b *Bot) sendError(chatID int64, messageID int, action, reason string, keyboard tgbotapi.InlineKeyboardMarkup) {
	detail := format.Format(reason, 500, 5)
	b.edit(chatID, messageID,
		"🙁 I'm sorry, but I encountered an error while "+action+":\n\n<i>"+html.EscapeString(detail)+"</i>",
		&keyboard)
}

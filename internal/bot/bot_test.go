package bot

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivanoskov/whalevybe_bot/internal/model"
	"github.com/ivanoskov/whalevybe_bot/internal/repository"
	"github.com/ivanoskov/whalevybe_bot/internal/service"
	"github.com/ivanoskov/whalevybe_bot/internal/vybe"
)

const (
	testUserID int64 = 100
	testChatID int64 = 200
	validAddr        = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
)

// fakeAPI записывает исходящие сообщения вместо похода в Telegram
type fakeAPI struct {
	sent []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	ch := make(chan tgbotapi.Update)
	close(ch)
	return ch
}

// last возвращает последнее отправленное сообщение
func (f *fakeAPI) last(t *testing.T) tgbotapi.Chattable {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

func chattableText(t *testing.T, c tgbotapi.Chattable) string {
	t.Helper()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	default:
		t.Fatalf("unexpected chattable type %T", c)
		return ""
	}
}

func chattableKeyboard(t *testing.T, c tgbotapi.Chattable) *tgbotapi.InlineKeyboardMarkup {
	t.Helper()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		if m.ReplyMarkup == nil {
			return nil
		}
		kb, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		return &kb
	case tgbotapi.EditMessageTextConfig:
		return m.ReplyMarkup
	default:
		t.Fatalf("unexpected chattable type %T", c)
		return nil
	}
}

func keyboardCallbacks(kb *tgbotapi.InlineKeyboardMarkup) []string {
	if kb == nil {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				out = append(out, *btn.CallbackData)
			}
		}
	}
	return out
}

type testBot struct {
	bot     *Bot
	api     *fakeAPI
	tracker *service.WalletTracker
}

func newTestBot(t *testing.T, handler http.HandlerFunc) *testBot {
	t.Helper()

	baseURL := ""
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		baseURL = srv.URL
	}

	api := &fakeAPI{}
	tracker := service.NewWalletTracker(repository.NewMemoryRepository())
	client := vybe.NewClient(baseURL, "test-key", zap.NewNop())
	return &testBot{
		bot:     newBot(api, tracker, client, zap.NewNop()),
		api:     api,
		tracker: tracker,
	}
}

func (tb *testBot) sendCommand(cmd string) {
	tb.bot.handleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: testUserID},
		Chat: &tgbotapi.Chat{ID: testChatID},
		Text: cmd,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(cmd)},
		},
	}})
}

func (tb *testBot) sendText(text string) {
	tb.bot.handleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: testUserID},
		Chat: &tgbotapi.Chat{ID: testChatID},
		Text: text,
	}})
}

func (tb *testBot) press(data string) {
	tb.bot.handleUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb",
		From: &tgbotapi.User{ID: testUserID},
		Message: &tgbotapi.Message{
			MessageID: 1,
			Chat:      &tgbotapi.Chat{ID: testChatID},
		},
		Data: data,
	}})
}

func (tb *testBot) saveWallet(t *testing.T, address, nickname string) {
	t.Helper()
	tb.press("save_wallet")
	tb.sendText(address)
	tb.sendText(nickname)
	require.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
}

func TestSaveWalletScenario(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)

	// /start: приветствие и главное меню из четырёх пунктов
	tb.sendCommand("/start")
	last := tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "Welcome to WhaleVybe")
	assert.Equal(t,
		[]string{"wallet_menu", "token_menu", "demo", "end_chat"},
		keyboardCallbacks(chattableKeyboard(t, last)))

	// Wallet Management: меню из трёх пунктов
	tb.press("wallet_menu")
	assert.Equal(t,
		[]string{"save_wallet", "my_wallets", "main_menu"},
		keyboardCallbacks(chattableKeyboard(t, tb.api.last(t))))

	tb.press("save_wallet")
	assert.Equal(t, model.StepAwaitingWalletAddress, tb.tracker.Step(testUserID))

	// Невалидный адрес: повторный запрос, шаг не меняется
	tb.sendText("not-an-address!")
	assert.Equal(t, model.StepAwaitingWalletAddress, tb.tracker.Step(testUserID))
	assert.Contains(t, chattableText(t, tb.api.last(t)), "Invalid wallet address")

	tb.sendText(validAddr)
	assert.Equal(t, model.StepAwaitingNickname, tb.tracker.Step(testUserID))

	// Никнейм: кошелёк сохранён на позиции 0, диалог завершён
	tb.sendText("Main")
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
	last = tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "Saved: <b>Main</b>")
	assert.Contains(t, keyboardCallbacks(chattableKeyboard(t, last)), "view_holdings_0")

	wallets := tb.tracker.Wallets(testUserID)
	require.Len(t, wallets, 1)
	assert.Equal(t, validAddr, wallets[0].Address)
}

func TestTokenDetailsServerError(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	tb.press("token_details")
	require.Equal(t, model.StepAwaitingTokenDetails, tb.tracker.Step(testUserID))

	tb.sendText(strings.Repeat("m", 32))

	// Ошибка отрисована ограниченным блоком, пользователь вернулся в Token Tools
	last := tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "Status 500")
	assert.Contains(t, keyboardCallbacks(chattableKeyboard(t, last)), "token_details")
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
}

func TestTokenDetailsRichRendering(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Solana","symbol":"SOL","supply":"1000","decimals":9,"isNft":false}`))
	})

	tb.press("token_details")
	tb.sendText(strings.Repeat("m", 32))

	text := chattableText(t, tb.api.last(t))
	assert.Contains(t, text, "Token Details")
	assert.Contains(t, text, "Solana (SOL)")
	assert.Contains(t, text, "Supply")
}

func TestTokenDetailsNotFound(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such token", http.StatusNotFound)
	})

	tb.press("token_details")
	tb.sendText(strings.Repeat("m", 32))

	assert.Contains(t, chattableText(t, tb.api.last(t)), "couldn't find any details")
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
}

func TestTokenDetailsRawFallbackAndShowMore(t *testing.T) {
	t.Parallel()

	// Ответ без поля name: форма неожиданная, показываем сырые данные.
	// Куча длинных полей гарантирует обрезку и кнопку "Show more".
	var sb strings.Builder
	sb.WriteString(`{"weird":"shape"`)
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&sb, `,"field%02d":"%s"`, i, strings.Repeat("x", 2000))
	}
	sb.WriteString("}")
	body := sb.String()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	tb.press("token_details")
	tb.sendText(strings.Repeat("m", 32))

	last := tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "Token Details (Raw)")
	callbacks := keyboardCallbacks(chattableKeyboard(t, last))
	require.Contains(t, callbacks, "show_more")

	// Следующая страница показывает больше текста
	before := len(chattableText(t, last))
	tb.press("show_more")
	after := chattableText(t, tb.api.last(t))
	assert.Greater(t, len(after), before)
}

func TestDeleteWalletShiftsPositions(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)
	tb.saveWallet(t, validAddr, "First")
	tb.saveWallet(t, strings.Repeat("b", 44), "Second")

	tb.press("delete_0")
	assert.Contains(t, chattableText(t, tb.api.last(t)), "<b>First</b> deleted")

	// Бывшая позиция 1 теперь адресуется как 0
	w, ok := tb.tracker.Wallet(testUserID, 0)
	require.True(t, ok)
	assert.Equal(t, "Second", w.Nickname)

	tb.press("delete_1")
	assert.Contains(t, chattableText(t, tb.api.last(t)), "Wallet not found")
}

func TestDuplicateWalletNotice(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)
	tb.saveWallet(t, validAddr, "Main")

	tb.press("save_wallet")
	tb.sendText(validAddr)
	tb.sendText("Copy")

	assert.Contains(t, chattableText(t, tb.api.last(t)), "already saved as <b>Main</b>")
	assert.Len(t, tb.tracker.Wallets(testUserID), 1)
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
}

func TestCancelReturnsToFlowMenu(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)

	tb.press("save_wallet")
	tb.sendCommand("/cancel")
	last := tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "Back to Wallet Management")
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))

	tb.press("token_transfers")
	tb.sendCommand("/cancel")
	assert.Contains(t, chattableText(t, tb.api.last(t)), "Back to Token Tools")

	tb.sendCommand("/cancel")
	assert.Contains(t, chattableText(t, tb.api.last(t)), "Back to Main Menu")
}

func TestUnknownCommandFallsThroughToTextHandler(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)

	tb.press("save_wallet")
	tb.sendCommand("/foo")
	assert.Equal(t, model.StepAwaitingWalletAddress, tb.tracker.Step(testUserID))
	assert.Contains(t, chattableText(t, tb.api.last(t)), "Invalid wallet address")

	tb.sendCommand("/cancel")
	tb.sendCommand("/foo")
	assert.Contains(t, chattableText(t, tb.api.last(t)), "didn't understand")
}

func TestIdleTextShowsMainMenu(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)
	tb.sendText("hello?")

	last := tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "didn't understand")
	assert.Contains(t, keyboardCallbacks(chattableKeyboard(t, last)), "wallet_menu")
}

func TestMyWalletsListsSavedWallets(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)

	tb.press("my_wallets")
	last := tb.api.last(t)
	assert.Contains(t, chattableText(t, last), "haven't saved any wallets")
	assert.Contains(t, keyboardCallbacks(chattableKeyboard(t, last)), "save_wallet")

	tb.saveWallet(t, validAddr, "Main")
	tb.press("my_wallets")
	callbacks := keyboardCallbacks(chattableKeyboard(t, tb.api.last(t)))
	assert.Contains(t, callbacks, "select_wallet_0")
}

func TestSelectWalletDoesNotChangeStep(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)
	tb.saveWallet(t, validAddr, "Main")

	tb.press("select_wallet_0")
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
	assert.Contains(t, chattableText(t, tb.api.last(t)), "Selected: <b>Main</b>")
}

func TestAlertStub(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)
	tb.saveWallet(t, validAddr, "Main")

	tb.press("alert_0")
	text := chattableText(t, tb.api.last(t))
	assert.Contains(t, text, "demo mode")
	assert.Contains(t, text, "not yet implemented")
}

func TestRecentTransfersRichRendering(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transfers":[
			{"mintAddress":"So11111111111111111111111111111111111111112",
			 "amount":1.5,
			 "senderAddress":"senderAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
			 "receiverAddress":"receiverBBBBBBBBBBBBBBBBBBBBBBBBBBBBB",
			 "blockTime":1609459200,
			 "instructionName":"transferChecked"}
		]}`))
	})
	tb.saveWallet(t, validAddr, "Main")

	tb.press("recent_transfers_0")
	text := chattableText(t, tb.api.last(t))
	assert.Contains(t, text, "Recent Transfers for Main")
	assert.Contains(t, text, "Transfer #1")
	assert.Contains(t, text, "2021-01-01 00:00")
	assert.Contains(t, text, "transferChecked")
}

func TestHoldingsRendering(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalTokenValueUsd":"12.5","data":[
			{"symbol":"SOL","name":"Solana","amount":"0.5","valueUsd":"10"},
			{"symbol":"USDC","name":"USD Coin","amount":"2.5","valueUsd":"2.5"}
		]}`))
	})
	tb.saveWallet(t, validAddr, "Main")

	tb.press("view_holdings_0")
	text := chattableText(t, tb.api.last(t))
	assert.Contains(t, text, "Wallet Holdings")
	assert.Contains(t, text, "SOL")
	assert.Contains(t, text, "Total Value (USD)")
}

func TestTopHoldersRendering(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"rank":1,"ownerAddress":"ownerAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA","ownerName":"Binance","balance":"1000000","percentageOfSupplyHeld":12.345},
			{"rank":2,"ownerAddress":"ownerBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB","balance":"500000"}
		]}`))
	})

	tb.press("top_holders")
	require.Equal(t, model.StepAwaitingTokenHolders, tb.tracker.Step(testUserID))

	tb.sendText(strings.Repeat("m", 32))

	text := chattableText(t, tb.api.last(t))
	assert.Contains(t, text, "Top Holders")
	assert.Contains(t, text, "1. <b>Binance</b> — 1000000 (12.35% of supply)")
	assert.Contains(t, text, "2. <b>owner...BBBBB</b> — 500000")
	assert.Equal(t, model.StepIdle, tb.tracker.Step(testUserID))
}

func TestInstructionNamesChunked(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		names = append(names, `"ix`+strings.Repeat("a", i%3)+`"`)
	}
	tb := newTestBot(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[" + strings.Join(names, ",") + "]"))
	})

	tb.press("instruction_names")
	text := chattableText(t, tb.api.last(t))
	assert.Contains(t, text, "Solana Instruction Names")
	assert.Contains(t, text, "...and 10 more instruction names")
}

func TestWebhookUpdate(t *testing.T) {
	t.Parallel()

	tb := newTestBot(t, nil)

	body := `{"update_id":1,"message":{"message_id":5,"from":{"id":100},"chat":{"id":200},"text":"hi"}}`
	require.NoError(t, tb.bot.HandleWebhook([]byte(body)))
	assert.NotEmpty(t, tb.api.sent)

	assert.Error(t, tb.bot.HandleWebhook([]byte("{not json")))
}

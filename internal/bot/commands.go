package bot

import (
	"math/rand"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/whalevybe_bot/internal/model"
)

var loadingMessages = []string{
	"⏳ Fetching data from the blockchain...",
	"⏳ Querying the Vybe Network API...",
	"⏳ Processing your request...",
	"⏳ Almost there...",
	"⏳ Compiling information...",
}

var solanaTips = []string{
	"Did you know? Solana uses a unique consensus mechanism called Proof of History (PoH).",
	"Tip: Solana wallet addresses are typically 44 characters long and base58 encoded.",
	"Fact: SPL is the token standard on the Solana blockchain, similar to ERC-20 on Ethereum.",
	"Did you know? Solana is known for its high transaction speed and low fees.",
	"Tip: Always double-check the address before sending tokens!",
}

func loadingMessage() string {
	return loadingMessages[rand.Intn(len(loadingMessages))]
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "cancel":
		b.handleCancel(message)
	default:
		// Неизвестная команда обрабатывается как обычный текст текущего шага
		b.handleMessage(message)
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.tracker.StartFlow(message.From.ID, model.StepIdle)

	tip := solanaTips[rand.Intn(len(solanaTips))]
	text := "👋 <b>Welcome to WhaleVybe!</b>\n\n" +
		"Your elegant companion for tracking Solana wallets and exploring token information.\n\n" +
		"<i>" + tip + "</i>\n\n" +
		"Choose an option below to get started:"

	keyboard := b.mainMenuKeyboard()
	b.send(message.Chat.ID, text, &keyboard)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	keyboard := b.mainMenuKeyboard()
	b.send(message.Chat.ID,
		"Save a wallet ➔ Give it a nickname ➔ Track activity, set alerts, check token info easily. Use the menu below to navigate.",
		&keyboard)
}

// handleCancel сбрасывает диалог и возвращает пользователя в то меню,
// из которого был начат прерванный сценарий
func (b *Bot) handleCancel(message *tgbotapi.Message) {
	prev := b.tracker.ResetFlow(message.From.ID)

	text := "<i>Action cancelled.</i>"
	var keyboard tgbotapi.InlineKeyboardMarkup
	switch prev {
	case model.StepAwaitingWalletAddress, model.StepAwaitingNickname:
		text += " Back to Wallet Management."
		keyboard = b.walletManagementKeyboard()
	case model.StepAwaitingTokenDetails, model.StepAwaitingTokenTransfers,
		model.StepAwaitingTokenChart, model.StepAwaitingTokenHolders:
		text += " Back to Token Tools."
		keyboard = b.tokenToolsKeyboard()
	default:
		text += " Back to Main Menu."
		keyboard = b.mainMenuKeyboard()
	}

	b.send(message.Chat.ID, text, &keyboard)
}

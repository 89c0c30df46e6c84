package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ivanoskov/whalevybe_bot/internal/model"
	"github.com/ivanoskov/whalevybe_bot/internal/solana"
	"github.com/ivanoskov/whalevybe_bot/internal/vybe"
)

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	b.answerCallback(callback.ID, "")
	if callback.Message == nil {
		return
	}

	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	switch {
	case data == "main_menu":
		b.tracker.StartFlow(userID, model.StepIdle)
		keyboard := b.mainMenuKeyboard()
		b.edit(chatID, messageID, "<b>🏠 Main Menu</b>\nChoose an option:", &keyboard)

	case data == "wallet_menu":
		keyboard := b.walletManagementKeyboard()
		b.edit(chatID, messageID, "<b>💼 Wallet Management</b>\nManage your saved Solana wallets.", &keyboard)

	case data == "token_menu":
		keyboard := b.tokenToolsKeyboard()
		b.edit(chatID, messageID, "<b>🪙 Token Tools</b>\nExplore Solana token details and transfers.", &keyboard)

	case data == "save_wallet":
		b.tracker.StartFlow(userID, model.StepAwaitingWalletAddress)
		b.edit(chatID, messageID, "<b>Step 1:</b> Please enter the wallet address you want to save.", nil)

	case data == "my_wallets":
		b.showMyWallets(userID, chatID, messageID)

	case data == "token_details":
		b.tracker.StartFlow(userID, model.StepAwaitingTokenDetails)
		b.edit(chatID, messageID, "<b>Enter the token mint address to get details.</b>", nil)

	case data == "token_transfers":
		b.tracker.StartFlow(userID, model.StepAwaitingTokenTransfers)
		b.edit(chatID, messageID, "<b>Enter a wallet address or token mint address to view transfers.</b>", nil)

	case data == "token_chart":
		b.tracker.StartFlow(userID, model.StepAwaitingTokenChart)
		b.edit(chatID, messageID, "<b>Enter the token mint address to chart its price.</b>", nil)

	case data == "top_holders":
		b.tracker.StartFlow(userID, model.StepAwaitingTokenHolders)
		b.edit(chatID, messageID, "<b>Enter the token mint address to list its top holders.</b>", nil)

	case data == "instruction_names":
		b.showInstructionNames(userID, chatID, messageID)

	case data == "demo":
		b.showDemo(chatID, messageID)

	case data == "end_chat":
		b.tracker.StartFlow(userID, model.StepIdle)
		b.edit(chatID, messageID,
			"👋 Goodbye! We'll be here, excited for your next visit. Come back anytime to explore more with WhaleVybe!\n\nUse /start to begin a new session.",
			nil)

	case data == "show_more":
		b.showMoreRaw(userID, chatID, messageID)

	case strings.HasPrefix(data, "select_wallet_"):
		b.withWallet(userID, chatID, messageID, data, "select_wallet_", b.showWalletOptions)

	case strings.HasPrefix(data, "view_holdings_"):
		b.withWallet(userID, chatID, messageID, data, "view_holdings_", b.showHoldings)

	case strings.HasPrefix(data, "recent_transfers_"):
		b.withWallet(userID, chatID, messageID, data, "recent_transfers_", b.showRecentTransfers)

	case strings.HasPrefix(data, "alert_"):
		b.withWallet(userID, chatID, messageID, data, "alert_", b.showAlertStub)

	case strings.HasPrefix(data, "delete_"):
		b.withWallet(userID, chatID, messageID, data, "delete_", b.deleteWallet)

	default:
		b.logger.Info("unknown callback", zap.String("data", data))
	}
}

// withWallet разбирает позицию из callback-данных и разрешает её в кошелёк
// в момент нажатия: после удаления соседнего кошелька позиция в старой
// клавиатуре может указывать в никуда
func (b *Bot) withWallet(userID, chatID int64, messageID int, data, prefix string,
	handler func(userID, chatID int64, messageID, position int, wallet model.SavedWallet)) {

	position, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		b.walletNotFound(chatID, messageID)
		return
	}

	wallet, ok := b.tracker.Wallet(userID, position)
	if !ok {
		b.walletNotFound(chatID, messageID)
		return
	}

	handler(userID, chatID, messageID, position, wallet)
}

func (b *Bot) walletNotFound(chatID int64, messageID int) {
	keyboard := b.walletManagementKeyboard()
	b.edit(chatID, messageID, "Wallet not found. Please try again.", &keyboard)
}

func (b *Bot) showMyWallets(userID, chatID int64, messageID int) {
	wallets := b.tracker.Wallets(userID)

	text := "📭 You haven't saved any wallets yet."
	if len(wallets) > 0 {
		text = "⭐ <b>Your Saved Wallets:</b>\nSelect a wallet to view options:"
	}

	keyboard := b.myWalletsKeyboard(wallets)
	b.edit(chatID, messageID, text, &keyboard)
}

func (b *Bot) showWalletOptions(_, chatID int64, messageID, position int, wallet model.SavedWallet) {
	keyboard := b.walletOptionsKeyboard(position)
	b.edit(chatID, messageID,
		fmt.Sprintf("Selected: <b>%s</b> (<code>%s</code>)\nWhat would you like to do?",
			wallet.Nickname, solana.ShortAddr(wallet.Address)),
		&keyboard)
}

func (b *Bot) showHoldings(userID, chatID int64, messageID, position int, wallet model.SavedWallet) {
	preview := solana.ShortAddr(wallet.Address)
	keyboard := b.walletOptionsKeyboard(position)

	if !solana.IsValidWalletAddress(wallet.Address) {
		b.edit(chatID, messageID,
			fmt.Sprintf("The stored address for %s seems invalid.", wallet.Nickname), &keyboard)
		return
	}

	b.edit(chatID, messageID, loadingMessage(), nil)

	res := b.vybe.WalletHoldings(context.Background(), wallet.Address)
	switch res.Kind {
	case vybe.Success:
		if text, ok := renderHoldings(wallet.Nickname, preview, res.Data); ok {
			b.edit(chatID, messageID, text, &keyboard)
			return
		}
		b.sendRaw(userID, chatID, messageID, "📊 Wallet Holdings (Raw)", res.Data, menuWalletOptions(position))
	case vybe.Empty:
		b.edit(chatID, messageID,
			fmt.Sprintf("😕 Couldn't fetch holdings for <b>%s</b> (<code>%s</code>).", wallet.Nickname, preview),
			&keyboard)
	default:
		b.sendError(chatID, messageID, "fetching wallet holdings", res.Reason, keyboard)
	}
}

func (b *Bot) showRecentTransfers(userID, chatID int64, messageID, position int, wallet model.SavedWallet) {
	preview := solana.ShortAddr(wallet.Address)
	keyboard := b.walletOptionsKeyboard(position)

	b.edit(chatID, messageID, loadingMessage(), nil)

	res := b.vybe.TokenTransfers(context.Background(), wallet.Address, 10)
	switch res.Kind {
	case vybe.Success:
		list, isList := transferList(res.Data)
		switch {
		case isList && len(list) == 0:
			b.edit(chatID, messageID,
				fmt.Sprintf("😕 No recent transfers found for <b>%s</b> (<code>%s</code>).", wallet.Nickname, preview),
				&keyboard)
		case isList:
			title := fmt.Sprintf("🔄 <b>Recent Transfers for %s</b> (<code>%s</code>)", wallet.Nickname, preview)
			b.edit(chatID, messageID, renderTransferList(title, list), &keyboard)
		default:
			b.sendRaw(userID, chatID, messageID, "🔄 Recent Transfers (Raw)", res.Data, menuWalletOptions(position))
		}
	case vybe.Empty:
		b.edit(chatID, messageID,
			fmt.Sprintf("😕 No recent transfers found for <b>%s</b> (<code>%s</code>).", wallet.Nickname, preview),
			&keyboard)
	default:
		b.sendError(chatID, messageID, "fetching token transfers", res.Reason, keyboard)
	}
}

// showAlertStub — заглушка фичи алертов
func (b *Bot) showAlertStub(_, chatID int64, messageID, position int, wallet model.SavedWallet) {
	keyboard := b.walletOptionsKeyboard(position)
	b.edit(chatID, messageID,
		fmt.Sprintf("🔔 Alerts feature for <b>%s</b> (<code>%s</code>) is currently in demo mode.\nActual alert functionality is not yet implemented.",
			wallet.Nickname, solana.ShortAddr(wallet.Address)),
		&keyboard)
}

func (b *Bot) deleteWallet(userID, chatID int64, messageID, position int, _ model.SavedWallet) {
	removed, ok := b.tracker.DeleteWallet(userID, position)
	if !ok {
		b.walletNotFound(chatID, messageID)
		return
	}

	keyboard := b.walletManagementKeyboard()
	b.edit(chatID, messageID,
		fmt.Sprintf("🗑 Wallet <b>%s</b> deleted successfully.", removed.Nickname),
		&keyboard)
}

func (b *Bot) showInstructionNames(userID, chatID int64, messageID int) {
	b.edit(chatID, messageID, loadingMessage(), nil)

	keyboard := b.tokenToolsKeyboard()
	res := b.vybe.InstructionNames(context.Background())
	switch res.Kind {
	case vybe.Success:
		if text, ok := renderInstructionNames(res.Data); ok {
			b.edit(chatID, messageID, text, &keyboard)
			return
		}
		b.sendRaw(userID, chatID, messageID, "📝 Instruction Names (Raw)", res.Data, menuTokenTools)
	case vybe.Empty:
		b.edit(chatID, messageID,
			"😕 I couldn't find any instruction names. The API returned an empty response.", &keyboard)
	default:
		b.sendError(chatID, messageID, "fetching instruction names", res.Reason, keyboard)
	}
}

func (b *Bot) showDemo(chatID int64, messageID int) {
	text := "🎬 <b>WhaleVybe Demo & How-To:</b>\n\n" +
		"1️⃣ Use <b>Wallet Management</b> to save and view your Solana wallets.\n" +
		"   - Save a wallet with a nickname.\n" +
		"   - Select a saved wallet to view options like Holdings or Transfers.\n\n" +
		"2️⃣ Use <b>Token Tools</b> to explore Solana tokens.\n" +
		"   - Get details for any token mint address.\n" +
		"   - View recent transfers or a price chart for a token.\n" +
		"   - See a list of common instruction names.\n\n" +
		"3️⃣ Use <b>End Chat</b> when you're finished.\n\n" +
		"<i>Tip: Use /cancel anytime to stop the current action.</i>"

	keyboard := b.mainMenuKeyboard()
	b.edit(chatID, messageID, text, &keyboard)
}

// showMoreRaw перерисовывает закэшированные сырые данные с увеличенными
// бюджетами; кнопка исчезает, когда обрезать больше нечего
func (b *Bot) showMoreRaw(userID, chatID int64, messageID int) {
	data, page, title, menu, ok := b.tracker.NextRawPage(userID)
	if !ok {
		keyboard := b.mainMenuKeyboard()
		b.edit(chatID, messageID, "Nothing to expand. Choose an option:", &keyboard)
		return
	}

	b.renderRawPage(chatID, messageID, title, data, page, menu)
}

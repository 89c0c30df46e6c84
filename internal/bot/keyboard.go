package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ivanoskov/whalevybe_bot/internal/model"
	"github.com/ivanoskov/whalevybe_bot/internal/solana"
)

// Имена меню для кэша сырых данных: по ним кнопка "Show more" восстанавливает
// клавиатуру того контекста, из которого делался запрос. На главное меню
// указывает любое другое имя.
const (
	menuWalletManagement = "wallet"
	menuTokenTools       = "token"
)

func menuWalletOptions(position int) string {
	return fmt.Sprintf("options_%d", position)
}

func (b *Bot) mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💼 Wallet Management", "wallet_menu"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🪙 Token Tools", "token_menu"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎬 Demo", "demo"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👋 End Chat", "end_chat"),
		),
	)
}

func (b *Bot) walletManagementKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Save Wallet", "save_wallet"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ My Wallets", "my_wallets"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Main Menu", "main_menu"),
		),
	)
}

func (b *Bot) tokenToolsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🪙 Token Details", "token_details"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Token Transfers", "token_transfers"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 Price Chart", "token_chart"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Top Holders", "top_holders"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Instruction Names", "instruction_names"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Main Menu", "main_menu"),
		),
	)
}

func (b *Bot) walletOptionsKeyboard(position int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 View Holdings", fmt.Sprintf("view_holdings_%d", position)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Recent Transfers", fmt.Sprintf("recent_transfers_%d", position)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Set Alert", fmt.Sprintf("alert_%d", position)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete Wallet", fmt.Sprintf("delete_%d", position)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Main Menu", "main_menu"),
		),
	)
}

func (b *Bot) myWalletsKeyboard(wallets []model.SavedWallet) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if len(wallets) == 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Save Wallet First", "save_wallet"),
		))
	} else {
		for idx, w := range wallets {
			label := fmt.Sprintf("%s (%s)", w.Nickname, solana.ShortAddr(w.Address))
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("select_wallet_%d", idx)),
			))
		}
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🏠 Back to Main Menu", "main_menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// menuKeyboard возвращает клавиатуру по имени контекста
func (b *Bot) menuKeyboard(menu string) tgbotapi.InlineKeyboardMarkup {
	if rest, ok := strings.CutPrefix(menu, "options_"); ok {
		if position, err := strconv.Atoi(rest); err == nil {
			return b.walletOptionsKeyboard(position)
		}
	}

	switch menu {
	case menuWalletManagement:
		return b.walletManagementKeyboard()
	case menuTokenTools:
		return b.tokenToolsKeyboard()
	default:
		return b.mainMenuKeyboard()
	}
}

// withShowMore добавляет кнопку постраничного просмотра над клавиатурой меню
func withShowMore(keyboard tgbotapi.InlineKeyboardMarkup) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔎 Show more", "show_more"),
		),
	}
	rows = append(rows, keyboard.InlineKeyboard...)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

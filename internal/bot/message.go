package bot

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ivanoskov/whalevybe_bot/internal/charts"
	"github.com/ivanoskov/whalevybe_bot/internal/model"
	"github.com/ivanoskov/whalevybe_bot/internal/service"
	"github.com/ivanoskov/whalevybe_bot/internal/solana"
	"github.com/ivanoskov/whalevybe_bot/internal/vybe"
)

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID

	switch b.tracker.Step(userID) {
	case model.StepAwaitingWalletAddress:
		b.handleAddressInput(userID, chatID, message.Text)
	case model.StepAwaitingNickname:
		b.handleNicknameInput(userID, chatID, message.Text)
	case model.StepAwaitingTokenDetails:
		b.handleTokenDetailsInput(userID, chatID, message.Text)
	case model.StepAwaitingTokenTransfers:
		b.handleTokenTransfersInput(userID, chatID, message.Text)
	case model.StepAwaitingTokenChart:
		b.handleTokenChartInput(userID, chatID, message.Text)
	case model.StepAwaitingTokenHolders:
		b.handleTokenHoldersInput(userID, chatID, message.Text)
	default:
		keyboard := b.mainMenuKeyboard()
		b.send(chatID, "I didn't understand that. Please use the buttons or commands like /start or /cancel.", &keyboard)
	}
}

func (b *Bot) handleAddressInput(userID, chatID int64, text string) {
	if b.tracker.SubmitAddress(userID, text) == service.AddressInvalid {
		// Состояние не меняется: пользователь пробует ещё раз или отменяет
		b.send(chatID, "⚠️ Invalid wallet address. Please try again or /cancel.", nil)
		return
	}
	b.send(chatID, "<b>Step 2:</b> Enter a nickname for this wallet (or /cancel).", nil)
}

func (b *Bot) handleNicknameInput(userID, chatID int64, text string) {
	res := b.tracker.SubmitNickname(userID, text)
	switch res.Outcome {
	case service.NicknameEmpty:
		b.send(chatID, "⚠️ Please enter a valid nickname (or /cancel).", nil)
	case service.AddressMissing:
		keyboard := b.mainMenuKeyboard()
		b.send(chatID, "Error: Wallet address missing. Please /start again.", &keyboard)
	case service.DuplicateAddress:
		keyboard := b.walletManagementKeyboard()
		b.send(chatID,
			fmt.Sprintf("ℹ️ This wallet address is already saved as <b>%s</b>.", res.Existing.Nickname),
			&keyboard)
	default:
		keyboard := b.walletOptionsKeyboard(res.Position)
		b.send(chatID,
			fmt.Sprintf("✅ Saved: <b>%s</b> (<code>%s</code>)\n\nWhat would you like to do with this wallet?",
				res.Wallet.Nickname, solana.ShortAddr(res.Wallet.Address)),
			&keyboard)
	}
}

func (b *Bot) handleTokenDetailsInput(userID, chatID int64, text string) {
	mint := strings.TrimSpace(text)
	if !looksLikeMintAddress(mint) {
		b.send(chatID, "⚠️ That doesn't look like a valid token mint address. Please try again or /cancel.", nil)
		return
	}

	waitID := b.sendAndReturn(chatID, loadingMessage())
	// Состояние сбрасывается до сетевого вызова: сбой не оставит диалог подвисшим
	b.tracker.ResetFlow(userID)

	keyboard := b.tokenToolsKeyboard()
	res := b.vybe.TokenDetails(context.Background(), mint)
	switch res.Kind {
	case vybe.Success:
		if rendered, ok := renderTokenDetails(mint, res.Data); ok {
			b.edit(chatID, waitID, rendered, &keyboard)
			return
		}
		b.sendRaw(userID, chatID, waitID, "🪙 Token Details (Raw)", res.Data, menuTokenTools)
	case vybe.Empty:
		b.edit(chatID, waitID,
			"😕 I couldn't find any details for this token. The token may not exist or hasn't been indexed yet.",
			&keyboard)
	default:
		b.sendError(chatID, waitID, "fetching token details", res.Reason, keyboard)
	}
}

func (b *Bot) handleTokenTransfersInput(userID, chatID int64, text string) {
	address := strings.TrimSpace(text)
	if !looksLikeMintAddress(address) {
		b.send(chatID, "⚠️ That doesn't look like a valid address. Please try again or /cancel.", nil)
		return
	}

	waitID := b.sendAndReturn(chatID, loadingMessage())
	b.tracker.ResetFlow(userID)

	keyboard := b.tokenToolsKeyboard()
	res := b.vybe.TokenTransfers(context.Background(), address, 10)
	switch res.Kind {
	case vybe.Success:
		list, isList := transferList(res.Data)
		switch {
		case isList && len(list) == 0:
			b.edit(chatID, waitID,
				"😕 I couldn't find any transfers for this address. The address may not have any recorded transfers or hasn't been indexed yet.",
				&keyboard)
		case isList:
			title := "🔄 <b>Recent Token Transfers</b>\n<b>Address:</b> <code>" + address + "</code>"
			b.edit(chatID, waitID, renderTransferList(title, list), &keyboard)
		default:
			b.sendRaw(userID, chatID, waitID, "🔄 Token Transfers (Raw)", res.Data, menuTokenTools)
		}
	case vybe.Empty:
		b.edit(chatID, waitID,
			"😕 I couldn't find any transfers for this address. The address may not have any recorded transfers or hasn't been indexed yet.",
			&keyboard)
	default:
		b.sendError(chatID, waitID, "fetching token transfers", res.Reason, keyboard)
	}
}

func (b *Bot) handleTokenChartInput(userID, chatID int64, text string) {
	mint := strings.TrimSpace(text)
	if !looksLikeMintAddress(mint) {
		b.send(chatID, "⚠️ That doesn't look like a valid token mint address. Please try again or /cancel.", nil)
		return
	}

	waitID := b.sendAndReturn(chatID, loadingMessage())
	b.tracker.ResetFlow(userID)

	keyboard := b.tokenToolsKeyboard()
	res := b.vybe.TokenOHLCV(context.Background(), mint, "1d", 30)
	switch res.Kind {
	case vybe.Success:
		points := charts.ParseOHLCV(res.Data)
		png, err := b.charts.GeneratePriceChart(solana.ShortAddr(mint), points)
		if err != nil {
			b.sendError(chatID, waitID, "rendering the price chart", err.Error(), keyboard)
			return
		}
		if png == nil {
			b.sendRaw(userID, chatID, waitID, "📈 Price History (Raw)", res.Data, menuTokenTools)
			return
		}

		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "price.png", Bytes: png})
		photo.Caption = fmt.Sprintf("📈 %s close price, last %d candles", solana.ShortAddr(mint), len(points))
		if _, err := b.api.Send(photo); err != nil {
			b.logger.Warn("failed to send chart", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		b.edit(chatID, waitID, "<b>🪙 Token Tools</b>\nExplore Solana token details and transfers.", &keyboard)
	case vybe.Empty:
		b.edit(chatID, waitID, "😕 No price history found for this token.", &keyboard)
	default:
		b.sendError(chatID, waitID, "fetching token price history", res.Reason, keyboard)
	}
}

func (b *Bot) handleTokenHoldersInput(userID, chatID int64, text string) {
	mint := strings.TrimSpace(text)
	if !looksLikeMintAddress(mint) {
		b.send(chatID, "⚠️ That doesn't look like a valid token mint address. Please try again or /cancel.", nil)
		return
	}

	waitID := b.sendAndReturn(chatID, loadingMessage())
	b.tracker.ResetFlow(userID)

	keyboard := b.tokenToolsKeyboard()
	res := b.vybe.TokenHolders(context.Background(), mint, 10)
	switch res.Kind {
	case vybe.Success:
		if rendered, ok := renderTopHolders(mint, res.Data); ok {
			b.edit(chatID, waitID, rendered, &keyboard)
			return
		}
		b.sendRaw(userID, chatID, waitID, "👥 Top Holders (Raw)", res.Data, menuTokenTools)
	case vybe.Empty:
		b.edit(chatID, waitID, "😕 I couldn't find any holders for this token.", &keyboard)
	default:
		b.sendError(chatID, waitID, "fetching top holders", res.Reason, keyboard)
	}
}

// looksLikeMintAddress — грубая проверка ввода перед запросом к API;
// строгую валидацию всё равно делает сам API
func looksLikeMintAddress(s string) bool {
	if len(s) < 20 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

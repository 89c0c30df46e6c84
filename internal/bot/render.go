package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ivanoskov/whalevybe_bot/internal/solana"
)

// renderTokenDetails собирает подробную карточку токена. Возвращает
// ok == false, если форма ответа не похожа на метаданные токена:
// тогда вызывающий показывает сырые данные через форматтер.
func renderTokenDetails(mint string, data any) (string, bool) {
	details, isMap := data.(map[string]any)
	if !isMap {
		return "", false
	}
	if _, hasError := details["error"]; hasError {
		return "", false
	}
	name, _ := details["name"].(string)
	if name == "" {
		return "", false
	}

	lines := []string{
		"<b>🪙 Token Details</b>",
		fmt.Sprintf("<b>Address:</b> <code>%s</code>", mint),
	}
	if symbol, _ := details["symbol"].(string); symbol != "" {
		lines = append(lines, fmt.Sprintf("<b>Token:</b> %s (%s)", name, symbol))
	} else {
		lines = append(lines, fmt.Sprintf("<b>Token:</b> %s", name))
	}

	var supply []string
	if v, ok := details["supply"]; ok {
		supply = append(supply, fmt.Sprintf("<b>Supply:</b> %v", v))
	}
	if v, ok := details["decimals"]; ok {
		supply = append(supply, fmt.Sprintf("<b>Decimals:</b> %v", v))
	}
	if len(supply) > 0 {
		lines = append(lines, "\n<b>📊 Supply Information:</b>")
		lines = append(lines, supply...)
	}

	var authority []string
	if v, ok := details["mintAuthority"].(string); ok {
		authority = append(authority, fmt.Sprintf("<b>Mint Authority:</b> <code>%s</code>", solana.ShortAddr(v)))
	}
	if v, ok := details["freezeAuthority"].(string); ok {
		authority = append(authority, fmt.Sprintf("<b>Freeze Authority:</b> <code>%s</code>", solana.ShortAddr(v)))
	}
	if len(authority) > 0 {
		lines = append(lines, "\n<b>🔑 Authority Information:</b>")
		lines = append(lines, authority...)
	}

	var meta []string
	if v, ok := details["isNft"].(bool); ok {
		isNft := "No"
		if v {
			isNft = "Yes"
		}
		meta = append(meta, fmt.Sprintf("<b>Is NFT:</b> %s", isNft))
	}
	if v, ok := details["lastUpdatedAt"]; ok {
		meta = append(meta, fmt.Sprintf("<b>Last Updated:</b> %v", v))
	}
	if len(meta) > 0 {
		lines = append(lines, "\n<b>ℹ️ Additional Metadata:</b>")
		lines = append(lines, meta...)
	}

	if other := renderOtherFields(details); len(other) > 0 {
		lines = append(lines, "\n<b>📋 Other Information:</b>")
		lines = append(lines, other...)
	}

	return strings.Join(lines, "\n"), true
}

var detailsSectionKeys = map[string]bool{
	"name": true, "symbol": true, "supply": true, "decimals": true,
	"freezeAuthority": true, "mintAuthority": true, "isNft": true,
	"lastUpdatedAt": true, "address": true,
}

// renderOtherFields выводит не более 5 скалярных полей, не попавших
// в основные секции, чтобы не раздувать сообщение
func renderOtherFields(details map[string]any) []string {
	keys := make([]string, 0, len(details))
	for k := range details {
		if !detailsSectionKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var fields []string
	for _, key := range keys {
		switch v := details[key].(type) {
		case string:
			if v != "" {
				fields = append(fields, fmt.Sprintf("<b>%s:</b> %s", capitalize(key), v))
			}
		case float64:
			if v != 0 {
				fields = append(fields, fmt.Sprintf("<b>%s:</b> %v", capitalize(key), v))
			}
		case bool:
			if v {
				fields = append(fields, fmt.Sprintf("<b>%s:</b> true", capitalize(key)))
			}
		}
	}

	if len(fields) > 5 {
		trailer := fmt.Sprintf("<i>...and %d more fields</i>", len(fields)-5)
		fields = append(fields[:5], trailer)
	}
	return fields
}

// transferList достаёт список переводов из ответа API: исторически он
// приходил и голым списком, и обёрнутым в объект
func transferList(data any) ([]any, bool) {
	if list, ok := data.([]any); ok {
		return list, true
	}
	if m, ok := data.(map[string]any); ok {
		if list, ok := m["transfers"].([]any); ok {
			return list, true
		}
		if list, ok := m["data"].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func renderTransferList(title string, list []any) string {
	lines := []string{title, ""}

	shown := len(list)
	if shown > 5 {
		shown = 5
	}
	for i := 0; i < shown; i++ {
		t, ok := list[i].(map[string]any)
		if !ok {
			lines = append(lines, fmt.Sprintf("<b>📤 Transfer #%d</b>", i+1), "<i>unrecognized entry</i>", "")
			continue
		}

		lines = append(lines, fmt.Sprintf("<b>📤 Transfer #%d</b>", i+1))
		lines = append(lines, fmt.Sprintf("<b>Token:</b> <code>%s</code>", solana.ShortAddr(stringField(t, "mintAddress", "Unknown Token"))))
		lines = append(lines, fmt.Sprintf("<b>Amount:</b> %v", fieldOr(t, "amount", "?")))
		lines = append(lines, fmt.Sprintf("<b>From:</b> <code>%s</code>", solana.ShortAddr(stringField(t, "senderAddress", "?"))))
		lines = append(lines, fmt.Sprintf("<b>To:</b> <code>%s</code>", solana.ShortAddr(stringField(t, "receiverAddress", "?"))))
		lines = append(lines, fmt.Sprintf("<b>Time:</b> %s", solana.FormatTime(fieldOr(t, "blockTime", "?"))))
		if instruction := stringField(t, "instructionName", ""); instruction != "" && instruction != "Transfer" {
			lines = append(lines, fmt.Sprintf("<b>Type:</b> %s", instruction))
		}
		lines = append(lines, "")
	}

	if len(list) > shown {
		lines = append(lines, fmt.Sprintf("<i>...and %d more transfers</i>", len(list)-shown))
	}
	return strings.Join(lines, "\n")
}

// renderHoldings собирает сводку балансов кошелька
func renderHoldings(nickname, preview string, data any) (string, bool) {
	m, isMap := data.(map[string]any)
	if !isMap {
		return "", false
	}
	rows, isList := m["data"].([]any)
	if !isList {
		return "", false
	}

	lines := []string{
		fmt.Sprintf("📊 Wallet Holdings: <b>%s</b> (<code>%s</code>)", nickname, preview),
		"",
	}
	if v, ok := m["totalTokenValueUsd"]; ok {
		lines = append(lines, fmt.Sprintf("<b>Total Value (USD):</b> %v", v), "")
	}

	if len(rows) == 0 {
		lines = append(lines, "<i>No token balances found.</i>")
		return strings.Join(lines, "\n"), true
	}

	shown := len(rows)
	if shown > 10 {
		shown = 10
	}
	for i := 0; i < shown; i++ {
		t, ok := rows[i].(map[string]any)
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("• <b>%s</b> — %v (worth %v USD)",
			stringField(t, "symbol", "?"),
			fieldOr(t, "amount", "?"),
			fieldOr(t, "valueUsd", "?")))
	}
	if len(rows) > shown {
		lines = append(lines, fmt.Sprintf("<i>...and %d more tokens</i>", len(rows)-shown))
	}

	return strings.Join(lines, "\n"), true
}

// renderTopHolders собирает список крупнейших держателей токена
func renderTopHolders(mint string, data any) (string, bool) {
	m, isMap := data.(map[string]any)
	if !isMap {
		return "", false
	}
	rows, isList := m["data"].([]any)
	if !isList || len(rows) == 0 {
		return "", false
	}

	lines := []string{
		"<b>👥 Top Holders</b>",
		fmt.Sprintf("<b>Token:</b> <code>%s</code>", solana.ShortAddr(mint)),
		"",
	}
	for i, r := range rows {
		if i >= 10 {
			lines = append(lines, fmt.Sprintf("<i>...and %d more holders</i>", len(rows)-i))
			break
		}
		h, ok := r.(map[string]any)
		if !ok {
			return "", false
		}

		owner := stringField(h, "ownerAddress", stringField(h, "address", "?"))
		label := stringField(h, "ownerName", "")
		if label == "" {
			label = solana.ShortAddr(owner)
		}
		line := fmt.Sprintf("%d. <b>%s</b> — %v", i+1, label, fieldOr(h, "balance", fieldOr(h, "amount", "?")))
		if pct, ok := h["percentageOfSupplyHeld"].(float64); ok {
			line += fmt.Sprintf(" (%.2f%% of supply)", pct)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"), true
}

// renderInstructionNames группирует имена инструкций по 5 в строке,
// показывая не более 50
func renderInstructionNames(data any) (string, bool) {
	list, ok := data.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}

	names := make([]string, 0, len(list))
	for _, v := range list {
		name, ok := v.(string)
		if !ok {
			return "", false
		}
		names = append(names, name)
	}

	shown := len(names)
	if shown > 50 {
		shown = 50
	}

	lines := []string{"<b>📝 Solana Instruction Names:</b>"}
	for i := 0; i < shown; i += 5 {
		end := i + 5
		if end > shown {
			end = shown
		}
		chunk := make([]string, 0, 5)
		for _, name := range names[i:end] {
			chunk = append(chunk, "<code>"+name+"</code>")
		}
		lines = append(lines, strings.Join(chunk, " • "))
	}
	if len(names) > shown {
		lines = append(lines, fmt.Sprintf("\n<i>...and %d more instruction names</i>", len(names)-shown))
	}

	return strings.Join(lines, "\n"), true
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func fieldOr(m map[string]any, key string, fallback any) any {
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package format превращает произвольные JSON-данные в ограниченный по
// размеру текст. Это единственное место, которое не даёт непредсказуемым
// ответам внешнего API раздуть или сломать исходящее сообщение.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	baseChars  = 3500
	baseItems  = 10
	growFactor = 2
	maxFields  = 5
	maxDepth   = 16

	truncationMarker = "...(truncated)"
)

// Приоритетные ключи выводятся первыми и именно в этом порядке
var priorityKeys = []string{"name", "symbol", "address", "mintAddress", "amount", "value", "error"}

// Format рекурсивно отрисовывает данные с заданными бюджетами символов и
// элементов. Чистая функция: одинаковый вход даёт одинаковый выход.
func Format(data any, maxChars, maxItems int) string {
	text, _ := renderBudget(data, maxChars, maxItems)
	return text
}

// Render отрисовывает данные для страницы page. С каждой страницей оба
// бюджета умножаются на фактор роста. Второй результат сообщает, было ли
// что-то обрезано: по нему решается, показывать ли кнопку "Show more".
func Render(data any, page int) (string, bool) {
	chars := baseChars
	items := baseItems
	for i := 0; i < page; i++ {
		chars *= growFactor
		items *= growFactor
	}
	return renderBudget(data, chars, items)
}

func renderBudget(data any, maxChars, maxItems int) (text string, truncated bool) {
	// Форматирование не должно падать ни на каких данных
	defer func() {
		if r := recover(); r != nil {
			text = "error formatting data"
			truncated = false
		}
	}()

	var cut bool
	text = formatValue(data, maxChars, maxItems, 0, &cut)
	// Дочерние бюджеты в сумме могут превысить страничный, поэтому итог
	// зажимается ещё раз целиком
	if len(text) > maxChars+len(truncationMarker) {
		text = truncate(text, maxChars, &cut)
	}
	return text, cut
}

func formatValue(data any, maxChars, maxItems, depth int, cut *bool) string {
	if maxChars < 1 {
		maxChars = 1
	}
	if maxItems < 1 {
		maxItems = 1
	}
	if depth > maxDepth {
		*cut = true
		return "..."
	}

	switch v := data.(type) {
	case nil:
		return "null"
	case string:
		return truncate(v, maxChars, cut)
	case []any:
		return formatList(v, maxChars, maxItems, depth, cut)
	case map[string]any:
		return formatMap(v, maxChars, maxItems, depth, cut)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return truncate(fmt.Sprintf("%v", v), maxChars, cut)
		}
		return truncate(string(raw), maxChars, cut)
	}
}

func formatList(items []any, maxChars, maxItems, depth int, cut *bool) string {
	if len(items) == 0 {
		return "Empty list"
	}

	lines := []string{fmt.Sprintf("List of %d items (showing up to %d):", len(items), maxItems)}
	childChars, childItems := childBudgets(maxChars, maxItems)

	shown := len(items)
	if shown > maxItems {
		shown = maxItems
	}
	for i := 0; i < shown; i++ {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, formatValue(items[i], childChars, childItems, depth+1, cut)))
	}
	if len(items) > shown {
		*cut = true
		lines = append(lines, fmt.Sprintf("...and %d more", len(items)-shown))
	}
	return strings.Join(lines, "\n")
}

func formatMap(m map[string]any, maxChars, maxItems, depth int, cut *bool) string {
	if len(m) == 0 {
		return "{}"
	}

	keys := orderedKeys(m)
	childChars, childItems := childBudgets(maxChars, maxItems)

	// Лимит полей растёт вместе со страничным бюджетом, иначе широкая
	// мапа не поместится ни на какой странице
	fieldCap := maxItems / 2
	if fieldCap < maxFields {
		fieldCap = maxFields
	}
	shown := len(keys)
	if shown > fieldCap {
		shown = fieldCap
	}

	lines := make([]string, 0, shown+1)
	for _, k := range keys[:shown] {
		lines = append(lines, fmt.Sprintf("%s: %s", k, formatValue(m[k], childChars, childItems, depth+1, cut)))
	}
	if len(keys) > shown {
		*cut = true
		lines = append(lines, fmt.Sprintf("...and %d more fields", len(keys)-shown))
	}
	return strings.Join(lines, "\n")
}

// childBudgets уменьшает бюджеты для вложенных значений: символы в ~5 раз,
// элементы в ~1.5 раза с округлением вверх
func childBudgets(maxChars, maxItems int) (int, int) {
	return maxChars / 5, (maxItems*2 + 2) / 3
}

// orderedKeys возвращает сначала приоритетные ключи, затем остальные по
// алфавиту, чтобы вывод был детерминированным
func orderedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range priorityKeys {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}

	rest := make([]string, 0, len(m))
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func truncate(s string, maxChars int, cut *bool) string {
	if len(s) <= maxChars {
		return s
	}
	*cut = true
	// Резать можно только по границе руны: битый UTF-8 Telegram отвергает
	end := maxChars
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + truncationMarker
}

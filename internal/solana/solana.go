package solana

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// base58 без похожих символов: 0, O, I, l
var base58Regexp = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// IsValidWalletAddress проверяет синтаксис адреса кошелька Solana.
// Пробелы не обрезаются: вызывающий сам нормализует ввод.
func IsValidWalletAddress(addr string) bool {
	return base58Regexp.MatchString(addr)
}

// ShortAddr сокращает адрес до вида XXXXX...XXXXX
func ShortAddr(addr string) string {
	if addr == "" {
		return "?"
	}
	if len(addr) < 10 {
		return addr
	}
	return addr[:5] + "..." + addr[len(addr)-5:]
}

// FormatTime переводит unix-время в читаемый вид; нечисловые значения
// возвращаются как есть
func FormatTime(ts any) string {
	switch v := ts.(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC().Format("2006-01-02 15:04")
	case int64:
		return time.Unix(v, 0).UTC().Format("2006-01-02 15:04")
	case int:
		return time.Unix(int64(v), 0).UTC().Format("2006-01-02 15:04")
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(n, 0).UTC().Format("2006-01-02 15:04")
		}
		return v
	default:
		return fmt.Sprintf("%v", ts)
	}
}

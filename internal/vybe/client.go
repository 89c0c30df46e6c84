// Package vybe — клиент Vybe Network API. Каждый запрос ограничен общим
// таймаутом и завершается одним из трёх исходов; ошибки не ретраятся и
// никогда не выходят за границу пакета паникой.
package vybe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.vybenetwork.xyz"

	requestTimeout = 10 * time.Second
)

// Kind различает исходы запроса к API
type Kind int

const (
	Success Kind = iota
	Empty
	Failure
)

// Result — единый результат любого запроса. Data заполнен только при
// Kind == Success и содержит разобранный JSON без привязки к схеме:
// форма ответа API контрактом не гарантирована.
type Result struct {
	Kind   Kind
	Data   any
	Reason string
}

// Client выполняет запросы к Vybe Network API
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// WalletHoldings возвращает балансы токенов кошелька
func (c *Client) WalletHoldings(ctx context.Context, address string) Result {
	return c.get(ctx, "/account/token-balance/"+address, nil)
}

// TokenDetails возвращает метаданные токена по mint-адресу
func (c *Client) TokenDetails(ctx context.Context, mintAddress string) Result {
	return c.get(ctx, "/token/"+mintAddress, nil)
}

// TokenTransfers возвращает последние переводы по адресу кошелька или токена
func (c *Client) TokenTransfers(ctx context.Context, address string, limit int) Result {
	return c.get(ctx, "/token/transfers", url.Values{
		"walletAddress": {address},
		"limit":         {strconv.Itoa(limit)},
	})
}

// InstructionNames возвращает список известных имён инструкций
func (c *Client) InstructionNames(ctx context.Context) Result {
	return c.get(ctx, "/token/instruction-names", nil)
}

// TokenOHLCV возвращает историю цены токена
func (c *Client) TokenOHLCV(ctx context.Context, mintAddress, resolution string, limit int) Result {
	return c.get(ctx, "/price/"+mintAddress+"/token-ohlcv", url.Values{
		"resolution": {resolution},
		"limit":      {strconv.Itoa(limit)},
	})
}

// TokenHolders возвращает крупнейших держателей токена
func (c *Client) TokenHolders(ctx context.Context, mintAddress string, limit int) Result {
	return c.get(ctx, "/token/"+mintAddress+"/top-holders", url.Values{
		"limit": {strconv.Itoa(limit)},
	})
}

func (c *Client) get(ctx context.Context, path string, params url.Values) Result {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{Kind: Failure, Reason: err.Error()}
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("vybe request failed", zap.String("path", path), zap.Error(err))
		return Result{Kind: Failure, Reason: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Kind: Failure, Reason: err.Error()}
	}

	if resp.StatusCode == http.StatusNotFound {
		return Result{Kind: Empty}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("vybe non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return Result{Kind: Failure, Reason: failureReason(resp.StatusCode, body)}
	}

	if strings.TrimSpace(string(body)) == "" {
		return Result{Kind: Empty}
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return Result{Kind: Failure, Reason: fmt.Sprintf("malformed response body: %v", err)}
	}
	if data == nil {
		return Result{Kind: Empty}
	}
	return Result{Kind: Success, Data: data}
}

// failureReason собирает причину вида "Status 500" с усечённым телом ответа
func failureReason(status int, body []byte) string {
	reason := fmt.Sprintf("Status %d", status)
	text := strings.TrimSpace(string(body))
	if text != "" {
		if len(text) > 200 {
			// Усечение только по границе руны, чтобы не породить битый UTF-8
			end := 200
			for end > 0 && !utf8.RuneStart(text[end]) {
				end--
			}
			text = text[:end]
		}
		reason += ": " + text
	}
	return reason
}

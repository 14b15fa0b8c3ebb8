package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
)

// MethodGetBalance - стандартный метод запроса баланса аккаунта
const MethodGetBalance = "eth_getBalance"

const maxResponseSize = 2 << 20

// Client выполняет JSON-RPC вызовы к произвольному эндпоинту.
// Таймаут задаётся контекстом вызова.
type Client struct {
	httpClient *http.Client
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Error - ошибка, которую вернул сам узел в поле error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// GetBalance возвращает баланс адреса в wei на последнем блоке
func (c *Client) GetBalance(ctx context.Context, endpoint, address string) (*big.Int, error) {
	var result string
	if err := c.call(ctx, endpoint, MethodGetBalance, []any{address, "latest"}, &result); err != nil {
		return nil, err
	}
	return ParseHexBig(result)
}

func (c *Client) call(ctx context.Context, endpoint, method string, params []any, result any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rpc http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded rpcResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("decode rpc json: %w", err)
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if len(decoded.Result) == 0 || string(decoded.Result) == "null" {
		return errors.New("rpc result is empty")
	}
	return json.Unmarshal(decoded.Result, result)
}

// ParseHexBig разбирает 0x-строку с произвольно большим целым
func ParseHexBig(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "0x") {
		return nil, fmt.Errorf("invalid hex: %q", value)
	}
	digits := strings.TrimPrefix(value, "0x")
	if digits == "" {
		return nil, fmt.Errorf("invalid hex: %q", value)
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex: %q", value)
	}
	return n, nil
}

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"grid-maker-go/order"
)

// RESTClient 实盘下单通道（Backpack）。HTTPClient 可注入 httptest，默认不触网。
// 未配置 Signer 时任何实盘调用立即返回 ErrSignerRequired。
type RESTClient struct {
	BaseURL    string
	Symbol     string
	Signer     Signer
	HTTPClient *http.Client
	Limiter    RateLimiter
	now        func() time.Time
}

// NewRESTClient 构造实盘通道；limiter 为 nil 时不限流。
func NewRESTClient(baseURL, symbol string, signer Signer, limiter RateLimiter) *RESTClient {
	return &RESTClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Symbol:     symbol,
		Signer:     signer,
		HTTPClient: NewDefaultHTTPClient(),
		Limiter:    limiter,
		now:        time.Now,
	}
}

type orderResp struct {
	ID string `json:"id"`
}

// Submit 提交限价单。返回交易所订单 ID；任何错误都意味着订单不存在，
// 调用方不得将其计入本地挂单。
func (c *RESTClient) Submit(ctx context.Context, o order.Order) (string, error) {
	params := map[string]string{
		"symbol":    c.Symbol,
		"side":      sideParam(o.Side),
		"orderType": "Limit",
		"price":     strconv.FormatFloat(o.Price, 'f', 6, 64),
		"quantity":  strconv.FormatFloat(o.NotionalUSD/o.Price, 'f', 6, 64),
		"clientId":  o.ID,
	}
	if o.ReduceOnly {
		params["reduceOnly"] = "true"
	}
	body, err := c.signed(ctx, http.MethodPost, "/api/v1/order", "orderExecute", params)
	if err != nil {
		return "", err
	}
	var or orderResp
	if err := json.Unmarshal(body, &or); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if or.ID == "" {
		return "", fmt.Errorf("empty order id in response")
	}
	return or.ID, nil
}

// Cancel 撤销指定订单。
func (c *RESTClient) Cancel(ctx context.Context, handle string) error {
	params := map[string]string{
		"symbol":  c.Symbol,
		"orderId": handle,
	}
	_, err := c.signed(ctx, http.MethodDelete, "/api/v1/order", "orderCancel", params)
	return err
}

// Close 释放底层连接池。
func (c *RESTClient) Close() error {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// signed 统一的签名请求路径：限流 -> 签名 -> 发送 -> 状态码检查。
func (c *RESTClient) signed(ctx context.Context, method, path, instruction string, params map[string]string) ([]byte, error) {
	if c.Signer == nil {
		return nil, ErrSignerRequired
	}
	if c.HTTPClient == nil {
		return nil, fmt.Errorf("http client not set")
	}
	if c.Limiter != nil {
		if err := c.Limiter.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	nowFn := c.now
	if nowFn == nil {
		nowFn = time.Now
	}
	headers, err := c.Signer.Sign(instruction, encodeSorted(params), nowFn())
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, strings.NewReader(string(payload)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s status %d", method, path, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// encodeSorted 按键名排序编码参数，签名消息要求稳定顺序。
func encodeSorted(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(parts, "&")
}

func sideParam(s order.Side) string {
	if s == order.SideBuy {
		return "Bid"
	}
	return "Ask"
}

// NewDefaultHTTPClient 提供一个带超时的 http.Client。
func NewDefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

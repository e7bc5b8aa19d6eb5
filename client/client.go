// Package client 提供服务端 API 的 Go 客户端，以及录入表单的日期解析控制器
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"financetracker/models"
)

// APIError 服务端返回的非 200 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("服务端返回 %d: %s", e.Status, e.Message)
}

// Client API 客户端
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
}

// New 创建客户端。token 为登录后获取的 JWT
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// apiResponse 服务端统一响应结构
type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: envelope.Message}
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("解析响应数据失败: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// EntryByDate 精确查询某档案某天的快照，无记录返回 (nil, nil)
func (c *Client) EntryByDate(ctx context.Context, profileID uint, date models.Date) (*models.Entry, error) {
	var payload struct {
		Entry *models.Entry `json:"entry"`
	}
	path := fmt.Sprintf("/api/profiles/%d/entries/by-date", profileID)
	if err := c.get(ctx, path, url.Values{"date": {date.String()}}, &payload); err != nil {
		return nil, err
	}
	return payload.Entry, nil
}

// EntryBeforeDate 查询严格早于 date 的最近快照及其实际日期，无记录返回 (nil, nil, nil)
func (c *Client) EntryBeforeDate(ctx context.Context, profileID uint, date models.Date) (*models.Entry, *models.Date, error) {
	var payload struct {
		Entry *models.Entry `json:"entry"`
		Date  *models.Date  `json:"date"`
	}
	path := fmt.Sprintf("/api/profiles/%d/entries/before-date", profileID)
	if err := c.get(ctx, path, url.Values{"date": {date.String()}}, &payload); err != nil {
		return nil, nil, err
	}
	return payload.Entry, payload.Date, nil
}

// LatestEntry 查询某档案最近一条快照，无记录返回 (nil, nil)
func (c *Client) LatestEntry(ctx context.Context, profileID uint) (*models.Entry, error) {
	var payload struct {
		Entry *models.Entry `json:"entry"`
	}
	path := fmt.Sprintf("/api/profiles/%d/entries/latest", profileID)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Entry, nil
}

// EntryDates 查询某档案全部记录日期（降序）
func (c *Client) EntryDates(ctx context.Context, profileID uint) ([]models.Date, error) {
	var payload struct {
		Dates []models.Date `json:"dates"`
	}
	path := fmt.Sprintf("/api/profiles/%d/entries/dates", profileID)
	if err := c.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Dates, nil
}

// SaveEntry 保存某档案的快照，返回服务端落库后的记录
func (c *Client) SaveEntry(ctx context.Context, profileID uint, entry *models.Entry) (*models.Entry, error) {
	var saved models.Entry
	path := fmt.Sprintf("/api/profiles/%d/entries", profileID)
	if err := c.do(ctx, http.MethodPost, path, nil, entry, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

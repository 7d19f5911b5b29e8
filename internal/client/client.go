// Package client calls the lists API on behalf of the web front end. Each
// method maps to exactly one API endpoint; there are no retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jaekwang-park/todo-lists/internal/model"
)

// ListRequest is the writable part of a list.
type ListRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ItemRequest is the writable part of an item.
type ItemRequest struct {
	Name          string     `json:"name"`
	State         string     `json:"state,omitempty"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"dueDate"`
	CompletedDate *time.Time `json:"completedDate"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API at baseURL. A nil httpClient uses one
// with a 30 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) GetLists(ctx context.Context, page model.Page) ([]model.TodoList, error) {
	var out []model.TodoList
	err := c.do(ctx, call{
		op: "GetLists", msg: "Error retrieving lists",
		method: http.MethodGet, path: "/lists", query: pageQuery(page),
	}, &out)
	return out, err
}

func (c *Client) GetList(ctx context.Context, listID string) (model.TodoList, error) {
	var out model.TodoList
	err := c.do(ctx, call{
		op: "GetList", msg: "Error retrieving list",
		method: http.MethodGet, path: "/lists/" + url.PathEscape(listID),
	}, &out)
	return out, err
}

func (c *Client) AddList(ctx context.Context, list ListRequest) (model.TodoList, error) {
	var out model.TodoList
	err := c.do(ctx, call{
		op: "AddList", msg: "Error adding list",
		method: http.MethodPost, path: "/lists", body: list,
	}, &out)
	return out, err
}

func (c *Client) UpdateList(ctx context.Context, listID string, list ListRequest) (model.TodoList, error) {
	var out model.TodoList
	err := c.do(ctx, call{
		op: "UpdateList", msg: "Error updating list",
		method: http.MethodPut, path: "/lists/" + url.PathEscape(listID), body: list,
	}, &out)
	return out, err
}

// DeleteList removes a list. cascade asks the API to remove its items too.
func (c *Client) DeleteList(ctx context.Context, listID string, cascade bool) error {
	var q url.Values
	if cascade {
		q = url.Values{"cascade": {"true"}}
	}
	return c.do(ctx, call{
		op: "DeleteList", msg: "Error deleting list",
		method: http.MethodDelete, path: "/lists/" + url.PathEscape(listID), query: q,
	}, nil)
}

func (c *Client) GetListItems(ctx context.Context, listID string, page model.Page) ([]model.TodoItem, error) {
	var out []model.TodoItem
	err := c.do(ctx, call{
		op: "GetListItems", msg: "Error retrieving items",
		method: http.MethodGet, path: "/lists/" + url.PathEscape(listID) + "/items", query: pageQuery(page),
	}, &out)
	return out, err
}

func (c *Client) AddListItem(ctx context.Context, listID string, item ItemRequest) (model.TodoItem, error) {
	var out model.TodoItem
	err := c.do(ctx, call{
		op: "AddListItem", msg: "Error adding item",
		method: http.MethodPost, path: "/lists/" + url.PathEscape(listID) + "/items", body: item,
	}, &out)
	return out, err
}

func (c *Client) GetListItem(ctx context.Context, listID, itemID string) (model.TodoItem, error) {
	var out model.TodoItem
	err := c.do(ctx, call{
		op: "GetListItem", msg: "Error retrieving item",
		method: http.MethodGet, path: itemPath(listID, itemID),
	}, &out)
	return out, err
}

func (c *Client) UpdateListItem(ctx context.Context, listID, itemID string, item ItemRequest) (model.TodoItem, error) {
	var out model.TodoItem
	err := c.do(ctx, call{
		op: "UpdateListItem", msg: "Error updating item",
		method: http.MethodPut, path: itemPath(listID, itemID), body: item,
	}, &out)
	return out, err
}

func (c *Client) DeleteListItem(ctx context.Context, listID, itemID string) error {
	return c.do(ctx, call{
		op: "DeleteListItem", msg: "Error deleting item",
		method: http.MethodDelete, path: itemPath(listID, itemID),
	}, nil)
}

func (c *Client) GetListItemsByState(ctx context.Context, listID, state string, page model.Page) ([]model.TodoItem, error) {
	var out []model.TodoItem
	err := c.do(ctx, call{
		op: "GetListItemsByState", msg: "Error retrieving items by state",
		method: http.MethodGet, path: "/lists/" + url.PathEscape(listID) + "/state/" + url.PathEscape(state), query: pageQuery(page),
	}, &out)
	return out, err
}

// call describes one upstream request.
type call struct {
	op     string
	msg    string
	method string
	path   string
	query  url.Values
	body   any
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	fail := func(status int, err error) error {
		return &Error{Op: cl.op, Message: cl.msg, StatusCode: status, Err: err}
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		buf, err := json.Marshal(cl.body)
		if err != nil {
			return fail(0, fmt.Errorf("failed to encode request: %w", err))
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return fail(0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := authorizationFrom(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "upstream call",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, upstreamError(resp.Body))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// upstreamError extracts the message from the API error envelope, if any.
func upstreamError(r io.Reader) error {
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&env); err != nil || env.Error.Message == "" {
		return nil
	}
	return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
}

// pageQuery forwards skip and batchSize only when they were supplied.
func pageQuery(page model.Page) url.Values {
	q := url.Values{}
	if page.Skip > 0 {
		q.Set("skip", strconv.Itoa(page.Skip))
	}
	if page.BatchSize > 0 {
		q.Set("batchSize", strconv.Itoa(page.BatchSize))
	}
	return q
}

func itemPath(listID, itemID string) string {
	return "/lists/" + url.PathEscape(listID) + "/items/" + url.PathEscape(itemID)
}

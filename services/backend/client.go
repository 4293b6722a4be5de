// Package backend is the HTTP client of the schedule API.
package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/assistant"
	"github.com/trezcool/ratiba/core/schedule"
)

const (
	eventsEndpoint = "/api/calendar/events"
	chatEndpoint   = "/api/chat"
)

var errUnsuccessful = errors.New("unsuccessful response")

type Client struct {
	baseURL string
	token   string
	http    *rest.Client
}

var (
	_ schedule.Fetcher    = (*Client)(nil)
	_ assistant.Responder = (*Client)(nil)
)

func NewClient(conf core.BackendConfig) *Client {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		token:   conf.Token,
		http:    &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func (c *Client) request(method rest.Method, endpoint string) rest.Request {
	req := rest.Request{
		Method:      method,
		BaseURL:     c.baseURL + endpoint,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: map[string]string{},
	}
	if c.token != "" {
		req.Headers["Authorization"] = "Bearer " + c.token
	}
	return req
}

func (c *Client) send(ctx context.Context, req rest.Request, dest interface{}) error {
	res, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.BaseURL)
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("%s %s: status %d: %s", req.Method, req.BaseURL, res.StatusCode, res.Body)
	}
	if err = json.Unmarshal([]byte(res.Body), dest); err != nil {
		return errors.Wrapf(err, "decoding %s response", req.BaseURL)
	}
	return nil
}

// FetchEvents gets the events of one month.
func (c *Client) FetchEvents(ctx context.Context, fr schedule.FetchRequest) (schedule.FetchResponse, error) {
	req := c.request(rest.Get, eventsEndpoint)
	if fr.OwnerID != "" {
		req.QueryParams["user_id"] = fr.OwnerID
	}
	req.QueryParams["year"] = strconv.Itoa(fr.Year)
	req.QueryParams["month"] = strconv.Itoa(fr.Month)

	var resp schedule.FetchResponse
	if err := c.send(ctx, req, &resp); err != nil {
		return schedule.FetchResponse{}, err
	}
	return resp, nil
}

type (
	chatRequest struct {
		Message string `json:"message"`
	}

	chatResponse struct {
		Success  bool   `json:"success"`
		Response string `json:"response"`
	}
)

// Respond sends a chat message and returns the assistant reply.
func (c *Client) Respond(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", errors.Wrap(err, "encoding chat request")
	}
	req := c.request(rest.Post, chatEndpoint)
	req.Headers["Content-Type"] = "application/json"
	req.Body = body

	var resp chatResponse
	if err = c.send(ctx, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", errUnsuccessful
	}
	return resp.Response, nil
}

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package client talks to the control-plane file of a hwrw server.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ezrec/hwrw/server"
	"github.com/ezrec/hwrw/translate"
)

var f = translate.From

// Result reports a command stored on the server.
type Result struct {
	ID        string // Command identifier assigned by the server.
	Consumed  int    // Bytes of input accepted.
	Truncated bool   // Input exceeded the maximum and was cut.
	Clipped   bool   // Response exceeded the server buffer and lost its last lines.
}

// Client of a hwrw server.
type Client struct {
	URL  string       // Base URL, i.e. http://127.0.0.1:8421
	Path string       // Control-plane file path.
	HTTP *http.Client // HTTP client used for requests.
}

// NewClient creates a client of the server at the base URL.
func NewClient(url string) (c *Client) {
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}

	c = &Client{
		URL:  strings.TrimRight(url, "/"),
		Path: server.DEFAULT_PATH,
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
	return
}

func (c *Client) do(ctx context.Context, method string, path string, body []byte) (rsp *http.Response, text []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL+path, bytes.NewReader(body))
	if err != nil {
		return
	}
	if body != nil {
		req.Header.Set("Content-Type", "text/plain")
	}

	rsp, err = c.HTTP.Do(req)
	if err != nil {
		return
	}
	defer rsp.Body.Close()

	text, err = io.ReadAll(rsp.Body)
	return
}

// Send stores a command on the server, which runs it.
func (c *Client) Send(ctx context.Context, input []byte) (res Result, err error) {
	rsp, text, err := c.do(ctx, http.MethodPut, c.Path, input)
	if err != nil {
		return
	}

	res.ID = rsp.Header.Get(server.HEADER_ID)
	res.Truncated = rsp.Header.Get(server.HEADER_TRUNCATED) == "true"
	res.Clipped = rsp.Header.Get(server.HEADER_CLIPPED) == "true"
	res.Consumed, _ = strconv.Atoi(rsp.Header.Get(server.HEADER_CONSUMED))

	switch rsp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		err = &ErrStatus{Code: rsp.StatusCode, Text: string(text), Err: ErrRejected}
	case http.StatusBadGateway:
		err = &ErrStatus{Code: rsp.StatusCode, Text: string(text), Err: ErrFailed}
	default:
		err = &ErrStatus{Code: rsp.StatusCode, Text: string(text), Err: ErrUnexpected}
	}

	return
}

// Response reads the result of the last completed command.
func (c *Client) Response(ctx context.Context) (response []byte, err error) {
	rsp, response, err := c.do(ctx, http.MethodGet, c.Path, nil)
	if err != nil {
		return
	}

	if rsp.StatusCode != http.StatusOK {
		err = &ErrStatus{Code: rsp.StatusCode, Text: string(response), Err: ErrUnexpected}
		response = nil
	}
	return
}

// Command sends a command and reads back its result. Another client may
// run a command between the two requests; use a single writer per server
// when that matters.
func (c *Client) Command(ctx context.Context, input string) (response string, err error) {
	_, err = c.Send(ctx, []byte(input))
	if err != nil {
		return
	}

	data, err := c.Response(ctx)
	if err != nil {
		return
	}

	response = string(data)
	return
}

// Get fetches a JSON API resource (status, resource, profile, audit) as text.
func (c *Client) Get(ctx context.Context, resource string) (text []byte, err error) {
	rsp, text, err := c.do(ctx, http.MethodGet, "/api/"+resource, nil)
	if err != nil {
		return
	}

	if rsp.StatusCode != http.StatusOK {
		err = &ErrStatus{Code: rsp.StatusCode, Text: string(text), Err: ErrUnexpected}
		text = nil
	}
	return
}

func (res Result) String() string {
	text := fmt.Sprintf("%v: %d", res.ID, res.Consumed)
	if res.Truncated {
		text += " " + f("(truncated)")
	}
	if res.Clipped {
		text += " " + f("(clipped)")
	}
	return text
}

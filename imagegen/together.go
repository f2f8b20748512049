/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package imagegen

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTogetherURL   = "https://api.together.xyz/v1/images/generations"
	DefaultTogetherModel = "black-forest-labs/FLUX.1-dev"
	DefaultTimeout       = time.Minute

	togetherSize  = 1024
	togetherSteps = 20
)

type togetherRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Steps  int    `json:"steps"`
	N      int    `json:"n"`
}

type togetherResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Together calls the Together.ai image generation API.
type Together struct {
	client  *fasthttp.Client
	url     string
	key     string
	model   string
	timeout time.Duration
}

func NewTogether(url, key, model string, timeout time.Duration) *Together {
	if url == "" {
		url = DefaultTogetherURL
	}

	if model == "" {
		model = DefaultTogetherModel
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Together{
		client: &fasthttp.Client{
			Name:                "imprompt",
			MaxIdleConnDuration: time.Minute,
		},
		url:     url,
		key:     key,
		model:   model,
		timeout: timeout,
	}
}

func (t *Together) Name() string {
	return "together"
}

func (t *Together) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(togetherRequest{
		Model:  t.model,
		Prompt: prompt,
		Width:  togetherSize,
		Height: togetherSize,
		Steps:  togetherSteps,
		N:      1,
	})
	if err != nil {
		return "", err
	}

	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(t.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+t.key)
	req.SetBodyRaw(body)

	if err := t.client.DoTimeout(req, resp, timeout); err != nil {
		return "", fmt.Errorf("together: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("together: status %d: %s", resp.StatusCode(), resp.Body())
	}

	var out togetherResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", fmt.Errorf("together: %w", err)
	}

	if len(out.Data) == 0 || out.Data[0].URL == "" {
		return "", fmt.Errorf("together: %w", ErrEmptyResponse)
	}

	return out.Data[0].URL, nil
}

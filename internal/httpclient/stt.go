// Package httpclient implements the STT Service and LLM Service interface
// contracts over plain net/http. No retry/resty-style client was found
// anywhere in the reference corpus for either of these call shapes, so
// both clients are built directly on the standard library with an
// explicit per-call timeout.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type STTClient struct {
	url        string
	httpClient *http.Client
}

func NewSTTClient(url string, timeout time.Duration) *STTClient {
	return &STTClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads audioPath as multipart/form-data and returns the raw
// response body (a VTT or plain-text transcript, per responseFormat).
func (c *STTClient) Transcribe(ctx context.Context, audioPath, model, responseFormat string, temperature float64) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio %s: %w", audioPath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy audio into request: %w", err)
	}

	_ = writer.WriteField("model", model)
	_ = writer.WriteField("response_format", responseFormat)
	_ = writer.WriteField("temperature", strconv.FormatFloat(temperature, 'f', -1, 64))

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, string(respBody))
	}

	return string(respBody), nil
}

type LLMClient struct {
	url        string
	httpClient *http.Client
}

func NewLLMClient(url string, timeout time.Duration) *LLMClient {
	return &LLMClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type llmCompletionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
	CachePrompt bool     `json:"cache_prompt"`
}

type llmCompletionResponse struct {
	Content string `json:"content"`
}

// Complete posts a prompt completion request and returns the generated
// content field.
func (c *LLMClient) Complete(ctx context.Context, prompt string, nPredict int, temperature float64, stop []string, cachePrompt bool) (string, error) {
	reqBody, err := json.Marshal(llmCompletionRequest{
		Prompt:      prompt,
		NPredict:    nPredict,
		Temperature: temperature,
		Stop:        stop,
		CachePrompt: cachePrompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("llm service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed llmCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse completion response: %w", err)
	}

	return parsed.Content, nil
}

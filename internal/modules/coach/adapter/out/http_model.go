package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"focustree/internal/modules/coach/domain"
	coachout "focustree/internal/modules/coach/port/out"
	apperrors "focustree/internal/platform/errors"
)

const maxErrorBody = 4096

// HTTPModel talks to a generateContent style endpoint.
type HTTPModel struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

func NewHTTPModel(endpoint, model, apiKey string, client *http.Client) *HTTPModel {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPModel{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		apiKey:   apiKey,
		client:   client,
	}
}

var _ coachout.Model = (*HTTPModel)(nil)

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
	MaxOutputTokens  int    `json:"maxOutputTokens,omitempty"`
}

type generateBody struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

func (m *HTTPModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	raw, err := json.Marshal(buildBody(req))
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", m.endpoint, m.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", m.apiKey)

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: generate request status %d: %s", apperrors.ErrRateLimited, resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("generate request status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	return replyText(body)
}

func buildBody(req domain.Request) generateBody {
	body := generateBody{GenerationConfig: generationConfig{MaxOutputTokens: req.MaxTokens}}
	if req.JSON {
		body.GenerationConfig.ResponseMimeType = "application/json"
	}
	if strings.TrimSpace(req.System) != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.System}}}
	}
	for _, turn := range req.History {
		body.Contents = append(body.Contents, content{Role: string(turn.Role), Parts: []part{{Text: turn.Text}}})
	}
	current := content{Role: string(domain.RoleUser), Parts: []part{{Text: req.Prompt}}}
	if len(req.Image) > 0 {
		mime := req.ImageMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		current.Parts = append(current.Parts, part{InlineData: &inlineData{MimeType: mime, Data: req.Image}})
	}
	body.Contents = append(body.Contents, current)
	return body
}

func replyText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("%w: generate response", domain.ErrInvalidJSON)
	}
	parsed := gjson.ParseBytes(body)
	if reason := parsed.Get("promptFeedback.blockReason"); reason.Exists() {
		return "", fmt.Errorf("prompt blocked: %s", reason.String())
	}
	var b strings.Builder
	parsed.Get("candidates.0.content.parts.#.text").ForEach(func(_, value gjson.Result) bool {
		b.WriteString(value.String())
		return true
	})
	if b.Len() == 0 {
		return "", domain.ErrEmptyReply
	}
	return b.String(), nil
}

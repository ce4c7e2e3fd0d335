package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/0x5457/textsim/internal/tokenizer"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ApiOptions configures an inference backend reached over HTTP.
type ApiOptions struct {
	URL     string
	Model   string
	Device  string
	Token   string
	Timeout time.Duration
}

type apiClient struct {
	url    string
	model  string
	device string
	token  string
	client *http.Client
}

func newApiClient(opts ApiOptions) apiClient {
	return apiClient{
		url:    opts.URL,
		model:  opts.Model,
		device: opts.Device,
		token:  opts.Token,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c apiClient) postJSON(ctx context.Context, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d for %s: %s", resp.StatusCode, c.url, bytes.TrimSpace(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ApiSentenceEncoder calls a sentence-transformers style encode endpoint.
type ApiSentenceEncoder struct {
	apiClient
}

func NewApiSentenceEncoder(opts ApiOptions) *ApiSentenceEncoder {
	return &ApiSentenceEncoder{apiClient: newApiClient(opts)}
}

type encodeRequest struct {
	Model               string   `json:"model,omitempty"`
	Device              string   `json:"device,omitempty"`
	Sentences           []string `json:"sentences"`
	BatchSize           int      `json:"batch_size,omitempty"`
	NormalizeEmbeddings bool     `json:"normalize_embeddings"`
}

func (e *ApiSentenceEncoder) Encode(
	ctx context.Context,
	sentences []string,
	opts EncodeOptions,
) ([][]float32, error) {
	request := &encodeRequest{
		Model:               e.model,
		Device:              e.device,
		Sentences:           sentences,
		BatchSize:           opts.BatchSize,
		NormalizeEmbeddings: opts.Normalize,
	}
	var embeddings [][]float32
	if err := e.postJSON(ctx, request, &embeddings); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// ApiTokenModel calls a transformer forward endpoint that returns the last
// hidden state. The backend runs without gradient tracking.
type ApiTokenModel struct {
	apiClient
}

func NewApiTokenModel(opts ApiOptions) *ApiTokenModel {
	return &ApiTokenModel{apiClient: newApiClient(opts)}
}

type forwardRequest struct {
	Model  string `json:"model,omitempty"`
	Device string `json:"device,omitempty"`
	tokenizer.Batch
}

type forwardResponse struct {
	LastHiddenState [][][]float32 `json:"last_hidden_state"`
}

func (m *ApiTokenModel) Forward(ctx context.Context, batch tokenizer.Batch) ([][][]float32, error) {
	request := &forwardRequest{
		Model:  m.model,
		Device: m.device,
		Batch:  batch,
	}
	var response forwardResponse
	if err := m.postJSON(ctx, request, &response); err != nil {
		return nil, err
	}
	return response.LastHiddenState, nil
}

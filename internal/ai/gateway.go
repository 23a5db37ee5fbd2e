package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/clipforge/internal/config"
)

var (
	// ErrNotConfigured means no gateway endpoint is set
	ErrNotConfigured = errors.New("inference gateway not configured")
	// ErrMalformedResponse means no usable JSON could be extracted
	ErrMalformedResponse = errors.New("malformed gateway response")
)

// Gateway is the client for the hosted inference endpoint. One call
// per user-initiated analysis; failures surface to the caller and are
// never retried automatically, so prior state stays untouched.
type Gateway struct {
	logger   zerolog.Logger
	client   *http.Client
	baseURL  string
	apiKey   string
	language string
}

// NewGateway creates a gateway client from configuration
func NewGateway(logger zerolog.Logger, cfg config.GatewayConfig) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		logger:   logger.With().Str("component", "gateway").Logger(),
		client:   &http.Client{Timeout: timeout},
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
	}
}

// Configured reports whether an endpoint is set
func (g *Gateway) Configured() bool {
	return g.baseURL != ""
}

// request is the wire envelope for every task
type request struct {
	Payload  any    `json:"payload"`
	Language string `json:"language,omitempty"`
}

// call posts one task request and returns the raw response body
func (g *Gateway) call(ctx context.Context, task Task, payload any) ([]byte, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(request{Payload: payload, Language: g.language})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/tasks/%s", g.baseURL, task)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	g.logger.Debug().Str("task", string(task)).Msg("calling inference gateway")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return raw, nil
}

// wireLine carries timed text with seconds on the wire
type wireLine struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func toLines(ws []wireLine) []Line {
	out := make([]Line, 0, len(ws))
	for _, w := range ws {
		out = append(out, Line{
			Start: time.Duration(w.Start * float64(time.Second)),
			End:   time.Duration(w.End * float64(time.Second)),
			Text:  w.Text,
		})
	}
	return out
}

// Transcribe runs speech-to-text on the given media
func (g *Gateway) Transcribe(ctx context.Context, mediaURL string) (*Transcript, error) {
	raw, err := g.call(ctx, TaskTranscribe, map[string]string{"media_url": mediaURL})
	if err != nil {
		return nil, err
	}

	var wire struct {
		Language string     `json:"language"`
		Lines    []wireLine `json:"lines"`
	}
	if err := decodeLenient(raw, &wire); err != nil {
		return nil, err
	}
	return &Transcript{Language: wire.Language, Lines: toLines(wire.Lines)}, nil
}

// Translate renders transcript lines into the target language
func (g *Gateway) Translate(ctx context.Context, t *Transcript) (*Translation, error) {
	raw, err := g.call(ctx, TaskTranslate, t)
	if err != nil {
		return nil, err
	}

	var wire struct {
		Language string     `json:"language"`
		Lines    []wireLine `json:"lines"`
	}
	if err := decodeLenient(raw, &wire); err != nil {
		return nil, err
	}
	return &Translation{Language: wire.Language, Lines: toLines(wire.Lines)}, nil
}

// Moderate checks content against policy
func (g *Gateway) Moderate(ctx context.Context, t *Transcript) (*ModerationReport, error) {
	raw, err := g.call(ctx, TaskModerate, t)
	if err != nil {
		return nil, err
	}

	report := &ModerationReport{}
	if err := decodeLenient(raw, report); err != nil {
		return nil, err
	}
	return report, nil
}

// DetectMoments finds highlight windows in the given media
func (g *Gateway) DetectMoments(ctx context.Context, mediaURL string) (*MomentList, error) {
	raw, err := g.call(ctx, TaskMoments, map[string]string{"media_url": mediaURL})
	if err != nil {
		return nil, err
	}

	var wire struct {
		Moments []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Label      string  `json:"label"`
			Confidence float64 `json:"confidence"`
		} `json:"moments"`
	}
	if err := decodeLenient(raw, &wire); err != nil {
		return nil, err
	}

	list := &MomentList{Moments: make([]Moment, 0, len(wire.Moments))}
	for _, m := range wire.Moments {
		list.Moments = append(list.Moments, Moment{
			Start:      time.Duration(m.Start * float64(time.Second)),
			End:        time.Duration(m.End * float64(time.Second)),
			Label:      m.Label,
			Confidence: m.Confidence,
		})
	}
	return list, nil
}

// ScoreVirality estimates short-form performance of a clip
func (g *Gateway) ScoreVirality(ctx context.Context, t *Transcript) (*ViralityScore, error) {
	raw, err := g.call(ctx, TaskVirality, t)
	if err != nil {
		return nil, err
	}

	score := &ViralityScore{}
	if err := decodeLenient(raw, score); err != nil {
		return nil, err
	}
	return score, nil
}

// RecognizeProducts finds product appearances in the given media
func (g *Gateway) RecognizeProducts(ctx context.Context, mediaURL string) (*ProductReport, error) {
	raw, err := g.call(ctx, TaskProducts, map[string]string{"media_url": mediaURL})
	if err != nil {
		return nil, err
	}

	var wire struct {
		Products []struct {
			Name       string  `json:"name"`
			Time       float64 `json:"time"`
			Confidence float64 `json:"confidence"`
		} `json:"products"`
	}
	if err := decodeLenient(raw, &wire); err != nil {
		return nil, err
	}

	report := &ProductReport{Products: make([]ProductMatch, 0, len(wire.Products))}
	for _, p := range wire.Products {
		report.Products = append(report.Products, ProductMatch{
			Name:       p.Name,
			Time:       time.Duration(p.Time * float64(time.Second)),
			Confidence: p.Confidence,
		})
	}
	return report, nil
}

// SuggestCopy generates publishing copy and a thumbnail hint
func (g *Gateway) SuggestCopy(ctx context.Context, t *Transcript) (*CopySuggestions, error) {
	raw, err := g.call(ctx, TaskSuggest, t)
	if err != nil {
		return nil, err
	}

	suggestions := &CopySuggestions{}
	if err := decodeLenient(raw, suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

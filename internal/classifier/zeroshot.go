package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/listenupapp/moodshelf/internal/breaker"
	"github.com/listenupapp/moodshelf/internal/metrics"
	"github.com/listenupapp/moodshelf/internal/ratelimit"
)

const (
	// ZeroShotLimiterKey is the bucket the zero-shot client draws from.
	ZeroShotLimiterKey = "zeroshot"

	// ZeroShotBreakerName labels the zero-shot breaker in logs and metrics.
	ZeroShotBreakerName = "zeroshot"

	defaultZeroShotTimeout = 30 * time.Second
	maxErrorBody           = 512
)

// Zero-shot endpoint errors.
var (
	ErrModelLoading = errors.New("zeroshot: model is loading")
	ErrRateLimited  = errors.New("zeroshot: rate limited by server")
	ErrServer       = errors.New("zeroshot: server error")
)

// ZeroShotConfig configures a ZeroShotClient.
type ZeroShotConfig struct {
	URL     string
	Token   string // Optional bearer token
	Timeout time.Duration
}

// ZeroShotClient is a TextClassifier backed by a Hugging Face style
// zero-shot classification endpoint.
type ZeroShotClient struct {
	http    *http.Client
	url     string
	token   string
	limiter *ratelimit.KeyedRateLimiter
	cb      *breaker.Breaker[*ZeroShotResult]
	logger  *slog.Logger
}

// NewZeroShotClient creates a new zero-shot client.
func NewZeroShotClient(cfg ZeroShotConfig, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *ZeroShotClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultZeroShotTimeout
	}
	return &ZeroShotClient{
		http:    &http.Client{Timeout: cfg.Timeout},
		url:     cfg.URL,
		token:   cfg.Token,
		limiter: limiter,
		cb:      breaker.New[*ZeroShotResult](ZeroShotBreakerName, breaker.Settings{}, logger),
		logger:  logger,
	}
}

// Classify ranks labels by relevance to text, best first.
func (c *ZeroShotClient) Classify(ctx context.Context, text string, labels []string) (*ZeroShotResult, error) {
	if len(labels) == 0 {
		return nil, ErrNoInput
	}

	return c.cb.Execute(func() (*ZeroShotResult, error) {
		start := time.Now()
		result, err := c.classify(ctx, text, labels)
		metrics.RecordUpstream("zeroshot", time.Since(start), err)
		return result, err
	})
}

// BreakerState returns the state of the zero-shot circuit breaker.
func (c *ZeroShotClient) BreakerState() string {
	return c.cb.State()
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

func (c *ZeroShotClient) classify(ctx context.Context, text string, labels []string) (*ZeroShotResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, ZeroShotLimiterKey); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	payload, err := json.Marshal(zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, ErrModelLoading
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	default:
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("zeroshot: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	result, err := decodeZeroShot(body)
	if err != nil {
		return nil, err
	}
	if result.Sequence == "" {
		result.Sequence = text
	}

	c.logger.Debug("zero-shot classification", "top", result.Labels[0], "score", result.Scores[0])
	return result, nil
}

type rawScore struct {
	Label    string    `json:"label"`
	Score    float64   `json:"score"`
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// decodeZeroShot accepts the pipeline shape {sequence, labels, scores}, a
// one-element list of it, or a flat [{label, score}] list. The result is
// sorted by score, highest first.
func decodeZeroShot(body []byte) (*ZeroShotResult, error) {
	body = bytes.TrimSpace(body)

	var result ZeroShotResult
	if len(body) > 0 && body[0] == '[' {
		var raw []rawScore
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		if len(raw) > 0 && len(raw[0].Labels) > 0 {
			result = ZeroShotResult{Sequence: raw[0].Sequence, Labels: raw[0].Labels, Scores: raw[0].Scores}
		} else {
			for _, r := range raw {
				result.Labels = append(result.Labels, r.Label)
				result.Scores = append(result.Scores, r.Score)
			}
		}
	} else if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Labels) == 0 {
		return nil, ErrEmptyResult
	}
	if len(result.Scores) != len(result.Labels) {
		return nil, fmt.Errorf("decode response: %d labels but %d scores", len(result.Labels), len(result.Scores))
	}

	sort.Stable(byScore(result))
	return &result, nil
}

// byScore sorts a result's parallel slices by descending score.
type byScore ZeroShotResult

func (b byScore) Len() int           { return len(b.Labels) }
func (b byScore) Less(i, j int) bool { return b.Scores[i] > b.Scores[j] }
func (b byScore) Swap(i, j int) {
	b.Labels[i], b.Labels[j] = b.Labels[j], b.Labels[i]
	b.Scores[i], b.Scores[j] = b.Scores[j], b.Scores[i]
}

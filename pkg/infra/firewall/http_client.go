package firewall

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/PromptWall/promptwall/pkg/infra/httpx"
	"github.com/sirupsen/logrus"
)

const scorePath = "/v1/score"

var ErrFailedScorerCall = errors.New("threat scorer call failed")

type HTTPScorerClient struct {
	client         httpx.Client
	logger         *logrus.Logger
	circuitBreaker httpx.CircuitBreaker
	bufferPool     sync.Pool
}

func NewHTTPScorerClient(
	client httpx.Client,
	logger *logrus.Logger,
	circuitBreaker httpx.CircuitBreaker,
) Client {
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPScorerClient{
		client:         client,
		logger:         logger,
		circuitBreaker: circuitBreaker,
		bufferPool: sync.Pool{
			New: func() any {
				buf := make([]byte, 4096)
				return &buf
			},
		},
	}
}

func (c *HTTPScorerClient) ScoreThreat(
	ctx context.Context,
	content Content,
	credentials Credentials,
) (*ScoreResponse, error) {
	var result *ScoreResponse
	var err error

	err = c.circuitBreaker.Execute(func() error {
		result, err = c.executeScoreRequest(ctx, content, credentials)
		return err
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Debug("threat scoring failed (circuit breaker)")
		}
		return nil, err
	}

	return result, nil
}

func (c *HTTPScorerClient) executeScoreRequest(
	ctx context.Context,
	content Content,
	credentials Credentials,
) (*ScoreResponse, error) {
	body, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content: %w", err)
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		credentials.BaseURL+scorePath,
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create score request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", credentials.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.WithError(err).Debug("failed to call threat scorer")
		}
		return nil, fmt.Errorf("failed to call threat scorer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithField("status_code", resp.StatusCode).Debug("threat scorer returned non-200 status")
		return nil, fmt.Errorf("%w: status %d", ErrFailedScorerCall, resp.StatusCode)
	}

	bufPtr, ok := c.bufferPool.Get().(*[]byte)
	if !ok {
		return nil, fmt.Errorf("failed to get buffer from pool")
	}
	defer c.bufferPool.Put(bufPtr)
	buf := *bufPtr

	n, err := resp.Body.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("score response read error: %w", err)
	}

	var scoreResp ScoreResponse
	if err := json.Unmarshal(buf[:n], &scoreResp); err != nil {
		return nil, fmt.Errorf("invalid score response: %w", err)
	}

	return &scoreResp, nil
}

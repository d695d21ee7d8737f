package detection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PromptWall/promptwall/pkg/domain/threat"
	infraFirewall "github.com/PromptWall/promptwall/pkg/infra/firewall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockScorerClient struct {
	response *infraFirewall.ScoreResponse
	err      error
	content  infraFirewall.Content
}

func (m *mockScorerClient) ScoreThreat(
	_ context.Context,
	content infraFirewall.Content,
	_ infraFirewall.Credentials,
) (*infraFirewall.ScoreResponse, error) {
	m.content = content
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func TestRemoteStrategy_Score_MapsResponse(t *testing.T) {
	client := &mockScorerClient{
		response: &infraFirewall.ScoreResponse{
			RiskScore:  0.95,
			Confidence: 0.9,
			Categories: []string{"jailbreak"},
		},
	}
	strategy := NewRemoteStrategy(client, infraFirewall.Credentials{}, 0.5, time.Second)

	detection, err := strategy.Score(context.Background(), "some prompt")

	require.NoError(t, err)
	assert.InDelta(t, 95, detection.Score, 0.001)
	assert.Equal(t, threat.SeverityCritical, detection.Severity)
	assert.True(t, detection.Flagged)
	assert.Equal(t, 0.9, detection.Confidence)
	assert.True(t, detection.HasCategory(threat.CategoryJailbreak))
	assert.Equal(t, "remote", detection.Details["method"])
	assert.Equal(t, []string{"some prompt"}, client.content.Input)
}

func TestRemoteStrategy_Score_SeverityBreakpoints(t *testing.T) {
	tests := []struct {
		name string
		risk float64
		want threat.Severity
	}{
		{name: "below low breakpoint", risk: 0.2, want: threat.SeveritySafe},
		{name: "low breakpoint", risk: 0.3, want: threat.SeverityLow},
		{name: "medium breakpoint", risk: 0.5, want: threat.SeverityMedium},
		{name: "high breakpoint", risk: 0.7, want: threat.SeverityHigh},
		{name: "critical breakpoint", risk: 0.9, want: threat.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockScorerClient{response: &infraFirewall.ScoreResponse{RiskScore: tt.risk}}
			strategy := NewRemoteStrategy(client, infraFirewall.Credentials{}, 0.5, time.Second)

			detection, err := strategy.Score(context.Background(), "prompt")

			require.NoError(t, err)
			assert.Equal(t, tt.want, detection.Severity)
		})
	}
}

func TestRemoteStrategy_Score_FlaggedFollowsThreshold(t *testing.T) {
	client := &mockScorerClient{response: &infraFirewall.ScoreResponse{RiskScore: 0.6}}

	low := NewRemoteStrategy(client, infraFirewall.Credentials{}, 0.5, time.Second)
	detection, err := low.Score(context.Background(), "prompt")
	require.NoError(t, err)
	assert.True(t, detection.Flagged)

	high := NewRemoteStrategy(client, infraFirewall.Credentials{}, 0.7, time.Second)
	detection, err = high.Score(context.Background(), "prompt")
	require.NoError(t, err)
	assert.False(t, detection.Flagged)
}

func TestRemoteStrategy_Score_ClampsRisk(t *testing.T) {
	client := &mockScorerClient{response: &infraFirewall.ScoreResponse{RiskScore: 1.5}}
	strategy := NewRemoteStrategy(client, infraFirewall.Credentials{}, 0.5, time.Second)

	detection, err := strategy.Score(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, float64(100), detection.Score)
	assert.Equal(t, threat.SeverityCritical, detection.Severity)
}

func TestRemoteStrategy_Score_PropagatesClientError(t *testing.T) {
	client := &mockScorerClient{err: errors.New("connection refused")}
	strategy := NewRemoteStrategy(client, infraFirewall.Credentials{}, 0.5, time.Second)

	detection, err := strategy.Score(context.Background(), "prompt")

	assert.Error(t, err)
	assert.Nil(t, detection)
}

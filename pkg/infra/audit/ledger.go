package audit

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainAudit "github.com/PromptWall/promptwall/pkg/domain/audit"
	"github.com/PromptWall/promptwall/pkg/domain/firewall"
	"github.com/PromptWall/promptwall/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Ledger keeps the running decision counters and writes every verdict
// through an append-only repository. Counters update even when the
// durable append fails; the append is best-effort and its failure is
// surfaced only as an operational warning.
//
// Record calls share a read lock so they proceed concurrently; Clear
// takes the write lock, making the wipe atomic with respect to any
// in-flight record.
type Ledger struct {
	mu     sync.RWMutex
	repo   domainAudit.Repository
	logger logrus.FieldLogger

	total     atomic.Int64
	blocked   atomic.Int64
	sanitized atomic.Int64
	allowed   atomic.Int64
	threats   atomic.Int64
}

func NewLedger(repo domainAudit.Repository, logger logrus.FieldLogger) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logger,
	}
}

// Record appends one audit record and bumps the counters. The returned
// id is unique for the lifetime of the ledger.
func (l *Ledger) Record(ctx context.Context, req *firewall.Request, verdict *firewall.Verdict) string {
	record := buildRecord(req, verdict)

	l.mu.RLock()
	defer l.mu.RUnlock()

	l.total.Add(1)
	switch verdict.Action {
	case firewall.ActionBlock:
		l.blocked.Add(1)
	case firewall.ActionSanitize:
		l.sanitized.Add(1)
	case firewall.ActionAllow:
		l.allowed.Add(1)
	}
	if verdict.Severity.Flagged() {
		l.threats.Add(1)
	}

	if err := l.repo.Append(ctx, record); err != nil {
		prometheus.LedgerWriteFailures.Inc()
		l.logger.WithError(err).WithField("request_id", record.ID).Warn("failed to append audit record")
	}

	return record.ID.String()
}

// Stats returns the counters with rates derived on read.
func (l *Ledger) Stats() domainAudit.Stats {
	stats := domainAudit.Stats{
		TotalRequests:   l.total.Load(),
		Blocked:         l.blocked.Load(),
		Sanitized:       l.sanitized.Load(),
		Allowed:         l.allowed.Load(),
		ThreatsDetected: l.threats.Load(),
	}
	if stats.TotalRequests > 0 {
		total := float64(stats.TotalRequests)
		stats.BlockRate = float64(stats.Blocked) / total * 100
		stats.SanitizeRate = float64(stats.Sanitized) / total * 100
		stats.ThreatRate = float64(stats.ThreatsDetected) / total * 100
	}
	return stats
}

// RecentThreats returns up to limit of the most recent high/critical
// records in arrival order.
func (l *Ledger) RecentThreats(ctx context.Context, limit int) ([]domainAudit.Record, error) {
	return l.repo.TailFlagged(ctx, limit)
}

// RecentRecords returns up to limit of the most recent records in
// arrival order.
func (l *Ledger) RecentRecords(ctx context.Context, limit int) ([]domainAudit.Record, error) {
	return l.repo.Tail(ctx, limit)
}

// Clear wipes stored records and zeroes every counter.
func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total.Store(0)
	l.blocked.Store(0)
	l.sanitized.Store(0)
	l.allowed.Store(0)
	l.threats.Store(0)

	return l.repo.Clear(ctx)
}

func buildRecord(req *firewall.Request, verdict *firewall.Verdict) *domainAudit.Record {
	record := &domainAudit.Record{
		ID:           uuid.New(),
		Timestamp:    time.Now().UTC(),
		UserID:       req.UserID,
		SessionID:    req.SessionID,
		Prompt:       req.Prompt,
		Action:       verdict.Action,
		Allowed:      verdict.Allowed,
		Score:        verdict.Score,
		Severity:     verdict.Severity,
		Sanitized:    verdict.SanitizedPrompt != "",
		ProcessingMs: verdict.ProcessingMs,
	}
	if verdict.Match != nil {
		record.RuleName = verdict.Match.RuleName
	}
	if verdict.Detection != nil {
		record.Confidence = verdict.Detection.Confidence
		categories := make([]string, 0, len(verdict.Detection.Categories))
		for _, c := range verdict.Detection.Categories {
			categories = append(categories, string(c))
		}
		record.Categories = strings.Join(categories, ",")
	}
	return record
}

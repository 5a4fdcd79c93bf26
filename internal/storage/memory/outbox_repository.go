package memory

import (
	"sort"
	"time"

	"github.com/vladislavdragonenkov/furniture-store/internal/domain"
)

// outboxView — in-memory представление transactional outbox.
// События записывают мутации заказов; воркер их забирает отсюда.
type outboxView struct {
	store *Store
}

func (v *outboxView) PullPending(limit int) ([]domain.OutboxMessage, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	pending := make([]*outboxRecord, 0)
	for _, rec := range s.outbox {
		if rec.status == "pending" {
			pending = append(pending, rec)
		}
	}
	// Порядок записи, как ORDER BY created_at, id в SQL-версии.
	sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })

	result := make([]domain.OutboxMessage, 0, limit)
	for _, rec := range pending {
		result = append(result, rec.msg)
		if len(result) >= limit {
			break
		}
	}

	return result, nil
}

func (v *outboxView) Stats() (domain.OutboxStats, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.OutboxStats
	for _, rec := range s.outbox {
		if rec.status != "pending" {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || rec.createdAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = rec.createdAt
		}
	}

	return stats, nil
}

func (v *outboxView) MarkSent(id string) error {
	return v.markStatus(id, "sent")
}

func (v *outboxView) MarkFailed(id string) error {
	return v.markStatus(id, "failed")
}

func (v *outboxView) markStatus(id, status string) error {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.outbox[id]
	if !ok {
		return domain.ErrOutboxPublish
	}
	rec.status = status
	rec.attemptCnt++
	rec.updatedAt = time.Now().UTC()
	return nil
}

var _ domain.OutboxRepository = (*outboxView)(nil)

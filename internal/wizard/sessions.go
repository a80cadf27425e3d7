package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("intake session not found")

// Sessions 内存中的向导会话表（不做持久化）
type Sessions struct {
	mu     sync.Mutex
	items  map[string]*Wizard
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// NewSessions ttl <= 0 表示不过期
func NewSessions(ttl time.Duration, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{
		items:  make(map[string]*Wizard),
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

// Start 开始新会话
func (s *Sessions) Start() *Wizard {
	w := New(uuid.NewString(), s.now)
	s.mu.Lock()
	s.items[w.ID()] = w
	s.mu.Unlock()
	s.logger.Debug("intake session started", zap.String("session_id", w.ID()))
	return w
}

// Get 查找会话
func (s *Sessions) Get(id string) (*Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return w, nil
}

// Discard 丢弃会话（提交成功或主动放弃）
func (s *Sessions) Discard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	return true
}

// Len 当前会话数
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep 清理闲置超过 ttl 的会话，正在提交的会话保留
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.items {
		if w.Submitting() || w.LastActive().After(cutoff) {
			continue
		}
		delete(s.items, id)
		removed++
	}
	if removed > 0 {
		s.logger.Info("swept idle intake sessions", zap.Int("removed", removed))
	}
	return removed
}

// Run 周期性 Sweep，直到 ctx 取消
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

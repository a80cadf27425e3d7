package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/internal/store"
)

// ErrInvalidSession 会话不存在、已过期或格式错误
var ErrInvalidSession = errors.New("invalid session")

// SessionRecord KV 中保存的登录会话
type SessionRecord struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// VerifySessionResponse 会话校验结果
// FirstLogin 由显式首次登录标记决定：该用户第一次通过校验时为 true
type VerifySessionResponse struct {
	Valid      bool   `json:"valid"`
	UserID     string `json:"userId,omitempty"`
	FirstLogin bool   `json:"firstLogin"`
}

// SessionService 登录会话校验
type SessionService struct {
	kv     store.KV
	prefix string
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewSessionService 创建会话服务
func NewSessionService(kv store.KV, prefix string, ttl time.Duration, logger *zap.Logger) *SessionService {
	if prefix == "" {
		prefix = "intake:session:"
	}
	return &SessionService{kv: kv, prefix: prefix, ttl: ttl, logger: logger, now: time.Now}
}

func (s *SessionService) sessionKey(token string) string { return s.prefix + token }

func (s *SessionService) firstLoginKey(userID string) string {
	return s.prefix + "first-login:" + userID
}

// CreateSession 为用户签发会话（身份提供方回调或本地开发使用）
func (s *SessionService) CreateSession(ctx context.Context, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("user_id is required")
	}
	rec, err := json.Marshal(SessionRecord{UserID: userID, CreatedAt: s.now().UTC()})
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.kv.Set(ctx, s.sessionKey(token), string(rec), s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// VerifySession 校验会话；无效时返回 ErrInvalidSession
func (s *SessionService) VerifySession(ctx context.Context, token string) (*VerifySessionResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &VerifySessionResponse{Valid: false}, ErrInvalidSession
	}
	raw, err := s.kv.Get(ctx, s.sessionKey(token))
	if err != nil {
		if errors.Is(err, store.ErrMiss) {
			return &VerifySessionResponse{Valid: false}, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var rec SessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.UserID == "" {
		s.logger.Warn("Malformed session record", zap.Error(err))
		return &VerifySessionResponse{Valid: false}, ErrInvalidSession
	}

	first, err := s.kv.SetNX(ctx, s.firstLoginKey(rec.UserID), s.now().UTC().Format(time.RFC3339), 0)
	if err != nil {
		// 标记写入失败不影响会话有效性
		s.logger.Warn("Failed to record first login", zap.String("user_id", rec.UserID), zap.Error(err))
		first = false
	}
	return &VerifySessionResponse{Valid: true, UserID: rec.UserID, FirstLogin: first}, nil
}

// RevokeSession 注销
func (s *SessionService) RevokeSession(ctx context.Context, token string) error {
	return s.kv.Del(ctx, s.sessionKey(token))
}

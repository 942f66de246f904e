package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// SessionRepository keeps one session hash per user with a TTL matching the token.
type SessionRepository struct {
	rdb *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func (r *SessionRepository) Save(ctx context.Context, s *entity.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session for %s already expired", s.UserID)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	fields := map[string]any{
		"user_id":    s.UserID,
		"sid":        s.SessionID,
		"username":   s.Username,
		"role":       string(s.Role),
		"token":      s.Token,
		"expires_at": s.ExpiresAt.UTC().Format(time.RFC3339Nano),
		"created_at": s.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	key := sessionKey(s.UserID)
	pipe := r.rdb.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session %s: %w", key, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (*entity.Session, error) {
	data, err := r.rdb.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(data) == 0 || data["sid"] == "" {
		return nil, apperr.ErrNotFound
	}
	s := &entity.Session{
		UserID:    data["user_id"],
		SessionID: data["sid"],
		Username:  data["username"],
		Role:      entity.Role(data["role"]),
		Token:     data["token"],
	}
	if s.UserID == "" {
		s.UserID = userID
	}
	s.ExpiresAt, _ = time.Parse(time.RFC3339Nano, data["expires_at"])
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, data["created_at"])
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

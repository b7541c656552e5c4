package service

import (
	"context"
	"encoding/json"
	"time"

	"alifbe_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardCacheKey = "alifbe:leaderboard:top"
	leaderboardCacheTTL = 60 * time.Second
	leaderboardMaxSize  = 50
)

// LeaderboardService serves the top learners by XP, cached in Redis with a
// short TTL. A nil or unreachable Redis client degrades to direct queries.
type LeaderboardService struct {
	store Store
	redis *redis.Client
}

func NewLeaderboardService(store Store, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{store: store, redis: rdb}
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    uint   `json:"userId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

// Top returns up to limit entries, highest XP first.
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > leaderboardMaxSize {
		limit = leaderboardMaxSize
	}

	if entries, ok := s.fromCache(ctx); ok {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}

	entries, err := s.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Refresh rebuilds the cached board from the store.
func (s *LeaderboardService) Refresh(ctx context.Context) ([]LeaderboardEntry, error) {
	users, err := s.store.Users().TopByXP(leaderboardMaxSize)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		name := u.Nickname
		if name == "" {
			name = u.FirstName
		}
		entries = append(entries, LeaderboardEntry{
			Rank:      i + 1,
			UserID:    u.ID,
			Name:      name,
			AvatarURL: u.AvatarURL,
			XP:        u.XP,
			Level:     u.Level,
		})
	}

	if s.redis != nil {
		data, err := json.Marshal(entries)
		if err == nil {
			if err := s.redis.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
			}
		}
	}
	return entries, nil
}

func (s *LeaderboardService) fromCache(ctx context.Context) ([]LeaderboardEntry, bool) {
	if s.redis == nil {
		return nil, false
	}
	data, err := s.redis.Get(ctx, leaderboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var entries []LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

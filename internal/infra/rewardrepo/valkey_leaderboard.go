package rewardrepo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/valkey-io/valkey-go"

	"github.com/climahealth/climahealth-api/internal/domain/reward"
)

// ValkeyLeaderboard ranks users in a Valkey sorted set keyed by points.
type ValkeyLeaderboard struct {
	client valkey.Client
	prefix string
}

// NewValkeyLeaderboard constructs a leaderboard backed by Valkey.
func NewValkeyLeaderboard(client valkey.Client, prefix string) *ValkeyLeaderboard {
	if prefix == "" {
		prefix = "rewards"
	}
	return &ValkeyLeaderboard{client: client, prefix: prefix}
}

// AddPoints increments the user's score.
func (l *ValkeyLeaderboard) AddPoints(ctx context.Context, userID int64, points int) error {
	cmd := l.client.B().Zincrby().Key(l.boardKey()).
		Increment(float64(points)).
		Member(strconv.FormatInt(userID, 10)).Build()
	return l.client.Do(ctx, cmd).Error()
}

// Top returns the highest scorers with dense ranks.
func (l *ValkeyLeaderboard) Top(ctx context.Context, limit int) ([]reward.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	resp := l.client.Do(ctx, l.client.B().Zrevrange().Key(l.boardKey()).
		Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]reward.LeaderboardEntry, 0, limit)
	appendEntry := func(member string, score float64) error {
		userID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			return err
		}
		out = append(out, reward.LeaderboardEntry{
			UserID: userID,
			Points: int(score),
			Rank:   len(out) + 1,
		})
		return nil
	}

	for i := 0; i < len(arr); {
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element.
			member, err := tuple[0].ToString()
			if err != nil {
				if valkey.IsValkeyNil(err) {
					i++
					continue
				}
				return nil, err
			}
			score, err := tuple[1].ToFloat64()
			if err != nil {
				return nil, err
			}
			if err := appendEntry(member, score); err != nil {
				return nil, err
			}
			i++
			continue
		}
		// RESP2 returns a flat alternating array.
		if i+1 >= len(arr) {
			break
		}
		member, err := arr[i].ToString()
		if err != nil {
			if valkey.IsValkeyNil(err) {
				i += 2
				continue
			}
			return nil, err
		}
		score, err := arr[i+1].ToFloat64()
		if err != nil {
			return nil, err
		}
		if err := appendEntry(member, score); err != nil {
			return nil, err
		}
		i += 2
	}
	return out, nil
}

func (l *ValkeyLeaderboard) boardKey() string {
	return fmt.Sprintf("%s:leaderboard", l.prefix)
}

var _ reward.Leaderboard = (*ValkeyLeaderboard)(nil)

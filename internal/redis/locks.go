package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

// releaseScript снимает блокировку, только если она все еще наша
var releaseScript = redisv9.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func lockKey(businessID string) string {
	return fmt.Sprintf("detection:lock:%s", businessID)
}

// AcquireDetectionLock ставит блокировку на сканирование бизнеса с TTL.
// ok=false значит бизнес уже сканирует другой процесс
func (c *Client) AcquireDetectionLock(ctx context.Context, businessID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := c.rdb.SetNX(ctx, lockKey(businessID), token, c.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire detection lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (c *Client) ReleaseDetectionLock(ctx context.Context, businessID, token string) error {
	if err := releaseScript.Run(ctx, c.rdb, []string{lockKey(businessID)}, token).Err(); err != nil {
		return fmt.Errorf("failed to release detection lock: %w", err)
	}
	return nil
}

package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only while it still holds our token,
// so a run that outlived its TTL cannot release a lock someone else now
// holds.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis implements Locker with a SET NX token under a TTL. The TTL bounds
// how long a crashed run can keep others out.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Retry  time.Duration
}

// NewRedis creates a Redis locker with a one minute TTL and a 250ms retry
// interval.
func NewRedis(opt *redis.Options) *Redis {
	return &Redis{
		Client: redis.NewClient(opt),
		TTL:    time.Minute,
		Retry:  250 * time.Millisecond,
	}
}

// Acquire polls SET NX until the lock is ours or ctx is done.
func (r *Redis) Acquire(ctx context.Context, name string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	for {
		ok, err := r.Client.SetNX(ctx, name, token, r.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", name, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", name, ctx.Err())
		case <-time.After(r.Retry):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, r.Client, []string{name}, token).Err()
	}
	return release, nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.Client.Close()
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

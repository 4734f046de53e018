package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_CHAT_RATE_PREFIX = "moodmate:chat_rate:"

type ValkeyConfig struct {
	Address  string
	Password string
	UseTLS   bool
	Limit    int
	Window   time.Duration
}

// ValkeyClient keeps fixed-window chat counters per client key.
type ValkeyClient struct {
	Client valkey.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewValkeyClient(ctx context.Context, cfg ValkeyConfig) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.Int("limit", cfg.Limit),
		slog.Duration("window", cfg.Window))

	return &ValkeyClient{
		Client: client,
		limit:  int64(cfg.Limit),
		window: cfg.Window,
		now:    time.Now,
	}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

// Allow counts one request for key in the current window and reports whether
// it is within the limit.
func (vc *ValkeyClient) Allow(ctx context.Context, key string) (bool, error) {
	rateKey := RateLimitKey(key, vc.now(), vc.window)

	completed := []valkey.Completed{
		vc.Client.B().Incr().Key(rateKey).Build(),
		vc.Client.B().Expire().Key(rateKey).Seconds(windowSeconds(vc.window)).Build(),
	}

	responses := vc.Client.DoMulti(ctx, completed...)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return true, fmt.Errorf("[ValkeyClient] rate limit update failed: %w", err)
		}
	}

	count, err := responses[0].AsInt64()
	if err != nil {
		return true, fmt.Errorf("[ValkeyClient] rate limit counter unreadable: %w", err)
	}

	return count <= vc.limit, nil
}

// RateLimitKey buckets key into the fixed window containing now.
func RateLimitKey(key string, now time.Time, window time.Duration) string {
	bucket := now.Unix() / windowSeconds(window)
	return fmt.Sprintf("%s%s:%d", VALKEY_CHAT_RATE_PREFIX, key, bucket)
}

func windowSeconds(window time.Duration) int64 {
	s := int64(window / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func TestRateLimitKey_BucketsByWindow(t *testing.T) {
	t.Parallel()

	base := time.Unix(1_699_999_980, 0) // start of a minute
	window := time.Minute

	first := RateLimitKey("10.0.0.1", base, window)
	sameWindow := RateLimitKey("10.0.0.1", base.Add(59*time.Second), window)
	nextWindow := RateLimitKey("10.0.0.1", base.Add(60*time.Second), window)
	otherClient := RateLimitKey("10.0.0.2", base, window)

	assert.Equal(t, first, sameWindow)
	assert.NotEqual(t, first, nextWindow)
	assert.NotEqual(t, first, otherClient)
	assert.Equal(t, VALKEY_CHAT_RATE_PREFIX+"10.0.0.1:28333333", first)
}

func TestWindowSeconds_Minimum(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 1, windowSeconds(10*time.Millisecond))
	assert.EqualValues(t, 90, windowSeconds(90*time.Second))
}

func newMockLimiter(t *testing.T, limit int, window time.Duration, now time.Time) (*ValkeyClient, *mock.Client) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	return &ValkeyClient{
		Client: client,
		limit:  int64(limit),
		window: window,
		now:    func() time.Time { return now },
	}, client
}

func TestValkeyClient_Allow(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_699_999_980, 0)
	key := RateLimitKey("10.0.0.1", now, time.Minute)

	tests := []struct {
		name    string
		count   int64
		allowed bool
	}{
		{name: "first request", count: 1, allowed: true},
		{name: "at limit", count: 3, allowed: true},
		{name: "over limit", count: 4, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			limiter, client := newMockLimiter(t, 3, time.Minute, now)
			client.EXPECT().
				DoMulti(gomock.Any(), mock.Match("INCR", key), mock.Match("EXPIRE", key, "60")).
				Return([]valkey.ValkeyResult{
					mock.Result(mock.ValkeyInt64(tt.count)),
					mock.Result(mock.ValkeyInt64(1)),
				})

			allowed, err := limiter.Allow(context.Background(), "10.0.0.1")
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestValkeyClient_AllowExpiresWithWindow(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_100, 0)
	key := RateLimitKey("10.0.0.2", now, 90*time.Second)

	limiter, client := newMockLimiter(t, 5, 90*time.Second, now)
	client.EXPECT().
		DoMulti(gomock.Any(), mock.Match("INCR", key), mock.Match("EXPIRE", key, "90")).
		Return([]valkey.ValkeyResult{
			mock.Result(mock.ValkeyInt64(2)),
			mock.Result(mock.ValkeyInt64(1)),
		})

	allowed, err := limiter.Allow(context.Background(), "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestValkeyClient_AllowFailsOpen(t *testing.T) {
	t.Parallel()

	connErr := errors.New("connection refused")
	limiter, client := newMockLimiter(t, 1, time.Minute, time.Unix(1_699_999_980, 0))
	client.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]valkey.ValkeyResult{
			mock.ErrorResult(connErr),
			mock.ErrorResult(connErr),
		})

	allowed, err := limiter.Allow(context.Background(), "10.0.0.3")
	require.ErrorIs(t, err, connErr)
	assert.True(t, allowed)
}

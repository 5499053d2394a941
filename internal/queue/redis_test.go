package queue

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name      string
		redisURL  string
		want      asynq.RedisClientOpt
		wantTLS   bool
		wantError bool
	}{
		{
			name:     "legacy host:port",
			redisURL: "localhost:6379",
			want:     asynq.RedisClientOpt{Addr: "localhost:6379"},
		},
		{
			name:     "redis URL without password",
			redisURL: "redis://localhost:6379",
			want:     asynq.RedisClientOpt{Addr: "localhost:6379"},
		},
		{
			name:     "redis URL with password and database",
			redisURL: "redis://:secretpass@redis.example.com:6379/1",
			want:     asynq.RedisClientOpt{Addr: "redis.example.com:6379", Password: "secretpass", DB: 1},
		},
		{
			name:     "redis URL with URL-encoded password",
			redisURL: "redis://:p%40ssw0rd%21@localhost:6379/0",
			want:     asynq.RedisClientOpt{Addr: "localhost:6379", Password: "p@ssw0rd!"},
		},
		{
			name:     "rediss URL enables TLS",
			redisURL: "rediss://:password@secure-redis.example.com:6380/0",
			want:     asynq.RedisClientOpt{Addr: "secure-redis.example.com:6380", Password: "password"},
			wantTLS:  true,
		},
		{
			name:      "invalid scheme",
			redisURL:  "http://localhost:6379",
			wantError: true,
		},
		{
			name:      "invalid database number",
			redisURL:  "redis://localhost:6379/abc",
			wantError: true,
		},
		{
			name:      "missing host",
			redisURL:  "redis://:password@/0",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRedisURL(tt.redisURL)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.want.Addr, got.Addr)
			assert.Equal(t, tt.want.Password, got.Password)
			assert.Equal(t, tt.want.DB, got.DB)
			assert.Equal(t, tt.wantTLS, got.TLSConfig != nil)
		})
	}
}

package database

import (
	"testing"

	"github.com/pinewood-labs/customer-store/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestConnectRedis_Unreachable(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{Host: "127.0.0.1", Port: "1"},
	}

	client, err := ConnectRedis(cfg)

	assert.Nil(t, client)
	assert.ErrorContains(t, err, "error pinging Redis")
}

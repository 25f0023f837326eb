package config

import (
	"fmt"

	"github.com/npezzotti/go-chat-relay/internal/bus"
)

const (
	BusRedis  = "redis"
	BusNATS   = "nats"
	BusMemory = "memory"
)

type Config struct {
	ServerAddr     string
	BusBackend     string
	RedisAddr      string
	NATSUrl        string
	ChannelPrefix  string
	AllowedOrigins []string
}

func NewConfig(serverAddr, busBackend, redisAddr, natsURL, channelPrefix string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}

	switch busBackend {
	case BusRedis:
		if redisAddr == "" {
			return nil, fmt.Errorf("redis address cannot be empty for redis bus")
		}
	case BusNATS:
		if natsURL == "" {
			return nil, fmt.Errorf("nats url cannot be empty for nats bus")
		}
	case BusMemory:
	default:
		return nil, fmt.Errorf("unknown bus backend %q", busBackend)
	}

	if channelPrefix == "" {
		channelPrefix = bus.DefaultChannelPrefix
	}

	return &Config{
		ServerAddr:     serverAddr,
		BusBackend:     busBackend,
		RedisAddr:      redisAddr,
		NATSUrl:        natsURL,
		ChannelPrefix:  channelPrefix,
		AllowedOrigins: allowedOrigins,
	}, nil
}

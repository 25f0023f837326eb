package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/npezzotti/go-chat-relay/internal/api"
	"github.com/npezzotti/go-chat-relay/internal/bus"
	"github.com/npezzotti/go-chat-relay/internal/config"
	"github.com/npezzotti/go-chat-relay/internal/relay"
	"github.com/npezzotti/go-chat-relay/internal/server"
	"github.com/npezzotti/go-chat-relay/internal/stats"
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	busBackend     string
	redisAddr      string
	natsURL        string
	channelPrefix  string
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&busBackend, "bus", config.BusRedis, "broadcast bus backend (redis, nats or memory)")
	flag.StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address")
	flag.StringVar(&natsURL, "nats-url", "nats://localhost:4222", "nats url")
	flag.StringVar(&channelPrefix, "channel-prefix", bus.DefaultChannelPrefix, "bus channel prefix")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[chat-relay] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, busBackend, redisAddr, natsURL, channelPrefix, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}

	eventBus, err := newBus(logger, cfg)
	if err != nil {
		logger.Fatal("bus:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	registry := relay.NewRegistry(logger)
	tracker := relay.NewTracker()
	eventRelay := relay.NewRelay(logger, registry, tracker, eventBus, statsUpdater)

	chatServer := server.NewServer(logger, eventRelay, cfg.AllowedOrigins)
	app := api.NewRelayApp(mux, logger, chatServer, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	// the process cannot participate correctly without the bus
	// subscription, so refuse connections until it is established
	if err := eventRelay.Start(context.Background()); err != nil {
		logger.Fatal("relay:", err)
	}
	chatServer.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	// unsubscribe and close the bus first so no delivery is attempted
	// once local connections start going away
	logger.Println("closing bus connections...")
	if err := eventBus.Close(); err != nil {
		logger.Println("bus close:", err)
	}

	if err := app.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("shutting down chat server...")
	if err := chatServer.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("chat server shutdown:", err)
	}

	logger.Println("shutdown complete")
}

func newBus(logger *log.Logger, cfg *config.Config) (bus.Bus, error) {
	switch cfg.BusBackend {
	case config.BusNATS:
		return bus.NewNATSBus(logger, cfg.NATSUrl, cfg.ChannelPrefix)
	case config.BusMemory:
		return bus.NewMemoryBus(logger), nil
	default:
		return bus.NewRedisBus(logger, cfg.RedisAddr, cfg.ChannelPrefix)
	}
}

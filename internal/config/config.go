// Package config reads server settings from flags and the environment.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr              string
	AllowOrigins      string
	DBPath            string
	LogLevel          log.Level
	MatchInterval     time.Duration
	WSReadBufferSize  int
	WSWriteBufferSize int
}

var levels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load parses args (without the program name). Each flag falls back to a
// CHESS_* environment variable before its default.
func Load(args []string) (Config, error) {
	return load(args, os.Getenv)
}

func load(args []string, getenv func(string) string) (Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	addr := fs.String("addr", env("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allow-origins", env("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	dbPath := fs.String("db", env("CHESS_DB_PATH", ""), "badger directory; empty keeps games in memory")
	level := fs.String("log-level", env("CHESS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	interval := fs.String("match-interval", env("CHESS_MATCH_INTERVAL", "1s"), "how often queued players are paired")
	readBuf := fs.String("ws-read-buffer", env("CHESS_WS_READ_BUFFER", "1024"), "websocket read buffer in bytes")
	writeBuf := fs.String("ws-write-buffer", env("CHESS_WS_WRITE_BUFFER", "1024"), "websocket write buffer in bytes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	lvl, ok := levels[strings.ToLower(*level)]
	if !ok {
		return Config{}, fmt.Errorf("unknown log level %q", *level)
	}
	every, err := time.ParseDuration(*interval)
	if err != nil {
		return Config{}, fmt.Errorf("match interval: %w", err)
	}
	if every <= 0 {
		return Config{}, fmt.Errorf("match interval must be positive, got %s", every)
	}

	readSize, err := bufferSize("ws read buffer", *readBuf)
	if err != nil {
		return Config{}, err
	}
	writeSize, err := bufferSize("ws write buffer", *writeBuf)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Addr:              *addr,
		AllowOrigins:      *origins,
		DBPath:            *dbPath,
		LogLevel:          lvl,
		MatchInterval:     every,
		WSReadBufferSize:  readSize,
		WSWriteBufferSize: writeSize,
	}, nil
}

func bufferSize(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return n, nil
}

// Origins splits AllowOrigins into a list.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

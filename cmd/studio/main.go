package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"studio/internal/config"
	"studio/internal/domain"
	"studio/internal/events"
	"studio/internal/gateway"
	"studio/internal/logging"
	"studio/internal/metrics"
	"studio/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const usage = `usage: studio <command> [flags]

commands:
  catalog                     load and print services and portfolio
  book                        submit a booking request (-retry resends the saved draft)
  admin -password S <op>      appointments | add-service | add-work | backup
  probe                       check backend and database connectivity
`

// errReported marks a failure whose user-facing status was already printed.
var errReported = errors.New("operation failed")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if !errors.Is(err, errReported) {
			log.Printf("studio: %v", err)
		}
		os.Exit(1)
	}
}

// app bundles the wiring shared by every command.
type app struct {
	cfg    *config.Config
	base   *zerolog.Logger
	logger *zerolog.Logger
	gw     *gateway.Client
	bus    *events.EventBus
	drafts domain.DraftRepository
	// draftsKept is false when drafts only live in process memory.
	draftsKept bool
	out        io.Writer
}

func (a *app) component(name string) *zerolog.Logger {
	return logging.Component(a.base, name)
}

func run(command string, args []string, out io.Writer) error {
	cfg, base, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	logger := logging.Component(base, "cli")

	metrics.Register()
	if path := cfg.Monitoring.MetricsTextfile; path != "" {
		defer func() {
			if err := metrics.WriteTextfile(path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("write metrics textfile")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewClient(cfg.Backend.BaseURL)
	gw.UseLogger(logging.Component(base, "gateway"))
	gw.UseRateLimit(cfg.Backend.RateLimit.RPS, cfg.Backend.RateLimit.Burst)

	bus := events.NewEventBus()
	bus.Subscribe(events.EventStatusChanged, func(e *events.Event) error {
		var p events.StatusPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		logger.Debug().Str("flow", p.Flow).Str("state", string(p.State)).Bool("ok", p.OK).Msg("status changed")
		return nil
	})

	a := &app{cfg: cfg, base: base, logger: logger, gw: gw, bus: bus, out: out}

	switch command {
	case "catalog":
		return a.runCatalog(ctx, args)
	case "book":
		redisClient := a.initDrafts(ctx)
		if redisClient != nil {
			defer func() { _ = repository.Close(redisClient) }()
		}
		return a.runBook(ctx, args)
	case "admin":
		return a.runAdmin(ctx, args)
	case "probe":
		return a.runProbe(ctx, args)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("STUDIO_CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, baseLogger, closer, nil
}

// initDrafts picks the draft store: redis when configured and reachable, backed
// by draft files in session.draft_dir. Process memory is the last resort.
func (a *app) initDrafts(ctx context.Context) *redis.Client {
	var local domain.DraftRepository
	files, err := repository.NewFileDraftRepository(a.cfg.Session.DraftDir, a.cfg.Session.DraftTTL)
	if err != nil {
		a.logger.Warn().Err(err).Str("dir", a.cfg.Session.DraftDir).Msg("draft directory unavailable, drafts kept in memory")
		local = repository.NewMemoryDraftRepository(a.cfg.Session.DraftTTL)
	} else {
		local = files
		a.draftsKept = true
	}
	a.drafts = local

	if a.cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(a.cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		a.logger.Warn().Err(err).Str("address", a.cfg.Redis.Address).Msg("redis unavailable, using local drafts")
		_ = client.Close()
		return nil
	}

	primary := repository.NewRedisDraftRepository(client, a.cfg.Session.DraftTTL)
	a.drafts = repository.NewFailoverDraftRepository(primary, local, a.component("drafts"))
	a.draftsKept = true
	a.logger.Info().Str("address", a.cfg.Redis.Address).Msg("redis draft store connected")
	return client
}

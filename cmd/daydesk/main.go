package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/robfig/cron/v3"

	"daydesk/internal/agenda"
	"daydesk/internal/assistant"
	"daydesk/internal/config"
	"daydesk/internal/ics"
	appLog "daydesk/internal/log"
	"daydesk/internal/store"
	"daydesk/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
}

func main() {
	appLog.Info("daydesk starting", "version", "0.1.0-dev")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"refresh", conf.RefreshCron,
		"ics_count", len(conf.ICS),
		"google_count", len(conf.Google),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	svc := agenda.New(conf.Location(), conf.WeekStartDay(), buildAccounts(ctx, conf))

	if err := svc.Refresh(ctx); err != nil {
		// A cold start with every source down still serves an empty
		// calendar; the cron refresh will recover it.
		appLog.Error("initial refresh failed", err)
	}

	if flags.once {
		appLog.Info("single refresh completed, exiting", "items", len(svc.Items()))
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := svc.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	var ai *assistant.Service
	if conf.Assistant.URL != "" {
		ai = assistant.NewService(assistant.NewHTTPBackend(conf.Assistant.URL, conf.Assistant.Model), conf.Assistant.Locale)
	}

	server := web.NewServer(conf, svc, ai)
	if err := server.Start(ctx); err != nil {
		appLog.Error("HTTP server failed", err)
		os.Exit(1)
	}

	appLog.Info("daydesk exiting")
}

// buildAccounts assembles the configured account stores. With nothing
// configured, a single in-memory account keeps the client usable.
func buildAccounts(ctx context.Context, conf *config.Config) []agenda.Account {
	loc := conf.Location()
	accounts := make([]agenda.Account, 0)

	for _, g := range conf.Google {
		auth := store.GoogleAuth{CredentialsFile: g.CredentialsFile, TokenFile: g.TokenFile}

		acct := agenda.Account{ID: g.ID}
		events, err := store.NewGoogleCalendar(ctx, auth, g.CalendarID, loc)
		if err != nil {
			appLog.Error("google calendar unavailable, skipping", err, "account", g.ID)
		} else {
			acct.Events = events
		}
		if g.Tasks {
			tasks, err := store.NewGoogleTasks(ctx, auth, loc)
			if err != nil {
				appLog.Error("google tasks unavailable, skipping", err, "account", g.ID)
			} else {
				acct.Tasks = tasks
			}
		}
		if acct.Events != nil || acct.Tasks != nil {
			accounts = append(accounts, acct)
		}
	}

	if len(conf.ICS) > 0 {
		sources := make([]ics.Source, 0, len(conf.ICS))
		for _, src := range conf.ICS {
			if src.URL == "" {
				continue
			}
			id := src.ID
			if id == "" {
				if src.Name != "" {
					id = src.Name
				} else {
					id = src.URL
				}
			}
			sources = append(sources, ics.Source{ID: id, URL: src.URL})
		}
		if len(sources) > 0 {
			accounts = append(accounts, agenda.Account{
				ID:     "ics",
				Events: ics.NewSubscription(filepath.Join(conf.CacheDir, "ics"), sources, loc),
			})
		}
	}

	if len(accounts) == 0 {
		appLog.Warn("no accounts configured, using in-memory store")
		accounts = append(accounts, agenda.Account{
			ID:     "local",
			Events: store.NewMemoryEvents(),
			Tasks:  store.NewMemoryTasks(),
		})
	}

	return accounts
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one refresh cycle and exit")

	flag.Parse()

	return cfg
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "daydesk", "config.yaml")
	}
	return "./config.yaml"
}

// Package sim parses simulator flags and drives a headless campaign run:
// it ticks the scheduling engine through a number of days, auto-resolving
// encounters, persisting progress and telemetry between days.
package sim

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/starhold/gatewatch/internal/difficulty"
	"github.com/starhold/gatewatch/internal/encounter"
	"github.com/starhold/gatewatch/internal/engine"
	"github.com/starhold/gatewatch/internal/engine/event"
	entrypoint "github.com/starhold/gatewatch/internal/platform/cmd"
	"github.com/starhold/gatewatch/internal/storage"
	"github.com/starhold/gatewatch/internal/storage/sqlite"
	"github.com/starhold/gatewatch/internal/telemetry"
)

// Config holds simulator command configuration.
type Config struct {
	StoragePath string        `env:"GATEWATCH_STORAGE_PATH" envDefault:"gatewatch.db"`
	CampaignID  string        `env:"GATEWATCH_CAMPAIGN_ID" envDefault:"default"`
	Days        int           `env:"GATEWATCH_SIM_DAYS" envDefault:"3"`
	TickStep    time.Duration `env:"GATEWATCH_SIM_TICK_STEP" envDefault:"250ms"`
	Seed        int64         `env:"GATEWATCH_SIM_SEED"`
	Resume      bool          `env:"GATEWATCH_SIM_RESUME" envDefault:"true"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "Path to the sqlite database file")
	fs.StringVar(&cfg.CampaignID, "campaign", cfg.CampaignID, "Campaign identifier to run")
	fs.IntVar(&cfg.Days, "days", cfg.Days, "Number of days to simulate")
	fs.DurationVar(&cfg.TickStep, "tick", cfg.TickStep, "Simulated time per tick")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Encounter generator seed (0 draws a random one)")
	fs.BoolVar(&cfg.Resume, "resume", cfg.Resume, "Resume from saved campaign state when present")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.Days < 1 {
		return Config{}, fmt.Errorf("days must be at least 1, got %d", cfg.Days)
	}
	if cfg.TickStep <= 0 {
		return Config{}, fmt.Errorf("tick step must be positive, got %v", cfg.TickStep)
	}
	return cfg, nil
}

// Run executes the simulator with telemetry configured.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSim, func(ctx context.Context) error {
		store, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close store: %v", err)
			}
		}()
		return runCampaign(ctx, cfg, store)
	})
}

// campaignStore is the persistence surface the simulator needs.
type campaignStore interface {
	storage.CampaignStateStore
	telemetry.Appender
}

func runCampaign(ctx context.Context, cfg Config, store campaignStore) error {
	eng, err := engine.New(engine.Config{
		Seed:           cfg.Seed,
		SettingsForDay: difficulty.SettingsForDay,
	})
	if err != nil {
		return fmt.Errorf("assemble engine: %w", err)
	}

	if cfg.Resume {
		if err := restoreState(ctx, cfg.CampaignID, store, eng); err != nil {
			return err
		}
	}

	emitter := telemetry.NewEmitter(store, cfg.CampaignID)
	eng.Subscribe(func(n event.Notice) {
		day := eng.Snapshot().Day
		if err := emitter.RecordNotice(ctx, day, n); err != nil {
			log.Printf("record notice %s: %v", n.Type, err)
		}
	})

	tracer := otel.Tracer("gatewatch/sim")
	for i := 0; i < cfg.Days; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runDay(ctx, cfg, eng, tracer); err != nil {
			return err
		}
		if err := persistState(ctx, cfg.CampaignID, store, eng); err != nil {
			return err
		}
		if i+1 < cfg.Days {
			if err := eng.RequestNextDay(); err != nil {
				return fmt.Errorf("advance to day %d: %w", eng.Snapshot().Day+1, err)
			}
		}
	}

	eng.GameOver()
	return persistState(ctx, cfg.CampaignID, store, eng)
}

// runDay drives one briefing-shift-report cycle to completion, approving
// valid encounters and denying invalid ones as they become active.
func runDay(ctx context.Context, cfg Config, eng *engine.Engine, tracer trace.Tracer) error {
	snap := eng.Snapshot()
	_, span := tracer.Start(ctx, "sim.day", trace.WithAttributes(
		attribute.Int("campaign.day", snap.Day),
		attribute.Int("campaign.quota", snap.Quota),
	))
	defer span.End()

	if eng.State() == engine.StateIdle {
		if err := eng.BeginBriefing(); err != nil {
			return fmt.Errorf("day %d briefing: %w", snap.Day, err)
		}
	}
	if err := eng.BeginShift(); err != nil {
		return fmt.Errorf("day %d shift: %w", snap.Day, err)
	}

	for eng.State() != engine.StateReporting {
		if err := ctx.Err(); err != nil {
			return err
		}
		eng.Tick(cfg.TickStep)
		if rec := eng.Snapshot().ActiveEncounter; rec != nil {
			decision := encounter.Decision{Approved: rec.Valid}
			if err := eng.ResolveActiveEncounter(decision); err != nil {
				return fmt.Errorf("resolve encounter %s: %w", rec.ID, err)
			}
		}
	}

	report := eng.Snapshot()
	span.SetAttributes(
		attribute.Int("campaign.ships_processed", report.ShipsProcessedToday),
		attribute.Bool("campaign.quota_met", report.ShipsProcessedToday >= report.Quota),
	)
	log.Printf("day %d: processed %d/%d ships (campaign total %d)",
		report.Day, report.ShipsProcessedToday, report.Quota, report.TotalShipsProcessed)
	return nil
}

func restoreState(ctx context.Context, campaignID string, store storage.CampaignStateStore, eng *engine.Engine) error {
	saved, err := store.LoadCampaignState(ctx, campaignID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	remaining := saved.Remaining
	if remaining <= 0 {
		remaining = difficulty.SettingsForDay(saved.Day).ShiftDuration
	}
	if err := eng.LoadDayState(saved.Day, saved.ShipsProcessedToday, saved.TotalShipsProcessed, remaining); err != nil {
		return fmt.Errorf("restore campaign %s: %w", campaignID, err)
	}
	log.Printf("campaign %s: resumed at day %d (%d ships processed)",
		campaignID, saved.Day, saved.TotalShipsProcessed)
	return nil
}

func persistState(ctx context.Context, campaignID string, store storage.CampaignStateStore, eng *engine.Engine) error {
	snap := eng.Snapshot()
	state := storage.CampaignState{
		Day:                 snap.Day,
		ShipsProcessedToday: snap.ShipsProcessedToday,
		TotalShipsProcessed: snap.TotalShipsProcessed,
		Remaining:           snap.Remaining,
		SavedAt:             time.Now().UTC(),
	}
	if err := store.SaveCampaignState(ctx, campaignID, state); err != nil {
		return fmt.Errorf("persist campaign %s: %w", campaignID, err)
	}
	return nil
}

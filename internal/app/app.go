package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Alejoss/Vivere-Stays-sub001/internal/config"
	"github.com/Alejoss/Vivere-Stays-sub001/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	role := ""
	if cfg.LDFlag_UsingIsolatedSchema {
		role = isolatedRole(cfg.UniqueRunnerID, cfg.UniqueRunNumber)
		utils.Logger.Infof("Using isolated schema for %s; role=%s", cfg.AppName, role)
	} else {
		utils.Logger.Info("Isolated schema disabled; using public schema.")
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)
	for i := 1; i <= maxRetries; i++ {
		dbPool, err = connect(cfg.DBUrl, role)
		if err == nil {
			utils.Logger.Infof("%s connected to DB on attempt %d", cfg.AppName, i)
			break
		}

		utils.Logger.WithError(err).Warnf("Failed DB connect on attempt %d/%d. Retrying in %v...", i, maxRetries, backoff)
		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	return &App{Config: cfg, DB: dbPool}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("DB connection closed.")
	}
}

func connect(databaseURL, role string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return newDBPool(ctx, databaseURL, role)
}

// newDBPool connects as role when set; the role's schema shadows public.
func newDBPool(ctx context.Context, databaseURL, role string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	if role != "" {
		cfg.ConnConfig.User = role
		cfg.ConnConfig.RuntimeParams["search_path"] = role + ",public"
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}

func isolatedRole(runnerID, runNumber string) string {
	return strings.ToLower(runnerID + "-" + runNumber)
}

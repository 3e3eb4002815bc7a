package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"farmwatch/internal/bootstrap/config"
	"farmwatch/internal/bootstrap/database"
	"farmwatch/internal/bootstrap/logging"
	"farmwatch/internal/infrastructure/echoapi"
	"farmwatch/internal/infrastructure/openfda"
	sqliterepo "farmwatch/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "farmwatch/internal/infrastructure/persistence/sqlite/uow"
	"farmwatch/internal/ports"
	"farmwatch/internal/usecase/ingest"
	"farmwatch/internal/usecase/query"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewViolationRepository,
			fx.As(new(ports.ViolationRepository)),
			fx.As(new(ports.ViolationReadRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(provideIngestService),
	fx.Provide(provideQueryService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideIngestService(repo ports.ViolationRepository, uow ports.UnitOfWork, cfg config.Config) *ingest.Service {
	echo := echoapi.NewClient(cfg.Sources.Echo.BaseURL)
	fda := openfda.NewClient(cfg.Sources.OpenFDA.BaseURL)
	return ingest.NewService(repo, uow, echo, fda, cfg.Sources)
}

func provideQueryService(repo ports.ViolationReadRepository, cfg config.Config) *query.Service {
	return query.NewService(repo, cfg.Server)
}

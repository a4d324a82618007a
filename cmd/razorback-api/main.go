// @title         Razorback Investing API
// @version       0.1.0
// @description   Read only endpoints for channels, videos, summaries, and prices

package main

import (
	"context"

	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/module"
	"github.com/sliu810/razorback-investing/internal/platform/config"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	phttp "github.com/sliu810/razorback-investing/internal/platform/net/http"
	"github.com/sliu810/razorback-investing/internal/platform/store"

	"github.com/sliu810/razorback-investing/internal/services/api"
	chanmod "github.com/sliu810/razorback-investing/internal/services/channels/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	// bring up logging early
	l := logger.Get()

	// open the platform store (postgres + CH adapter)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:    true,
				URL:        chCfg.MustString("DBURL"),
				ClientName: "razorback",
				ClientTag:  "api",
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// materialize the built-in channels so /channels lists them on a fresh DB
	chans := chanmod.New(modkit.Deps{Cfg: apiCfg, PG: st.PG})
	if err := module.MustPortsOf[chanmod.Ports](chans).Registry.Seed(context.Background()); err != nil {
		l.Panic().Err(err).Msg("channel seed failed")
	}

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

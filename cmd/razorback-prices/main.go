package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/module"
	"github.com/sliu810/razorback-investing/internal/platform/config"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	"github.com/sliu810/razorback-investing/internal/platform/store"

	pricesmod "github.com/sliu810/razorback-investing/internal/services/prices/module"
)

func main() {
	root := config.New()
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		CH: store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			LogSQL:     chCfg.MayBool("LOG_SQL", false),
			ClientName: "razorback",
			ClientTag:  "prices",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Flags
	var (
		fMode   = flag.String("mode", "performance", "prices mode: ingest | performance | demark")
		fSymbol = flag.String("symbol", "", "ticker symbol (required)")
		fPeriod = flag.String("period", "ytd", "period key: 1d 5d 1m 3m 6m 1y 2y 3y 5y 10y 20y ytd")
	)
	flag.Parse()

	if *fSymbol == "" {
		l.Panic().Msg("razorback-prices: -symbol is required")
	}

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		CH:  st.CH,
		Log: *l,
	}

	prc := pricesmod.New(deps)
	module.Register(prc.Name(), prc.Ports())
	ports := module.MustPortsOf[pricesmod.Ports](prc)

	ctx := context.Background()

	switch *fMode {
	case "ingest":
		rng, err := ports.Quotes.Window(*fPeriod)
		if err != nil {
			l.Fatal().Err(err).Str("period", *fPeriod).Msg("razorback-prices: bad period")
		}
		rep, err := ports.Ingest.IngestDaily(ctx, *fSymbol, rng)
		if err != nil {
			l.Fatal().Err(err).Str("symbol", *fSymbol).Msg("razorback-prices: ingest failed")
		}
		l.Info().
			Str("symbol", rep.Symbol).
			Int("fetched", rep.Fetched).
			Int("stored", rep.Stored).
			Msg("razorback-prices: ingest complete")

	case "performance":
		p, err := ports.Quotes.Performance(ctx, *fSymbol, *fPeriod)
		if err != nil {
			l.Fatal().Err(err).Str("symbol", *fSymbol).Msg("razorback-prices: performance failed")
		}
		fmt.Printf("%s %s: %.1f -> %.1f (%+.1f%%)  %s .. %s\n",
			p.Symbol, p.Period, p.StartClose, p.EndClose, p.ChangePct,
			p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))

	case "demark":
		rng, err := ports.Quotes.Window(*fPeriod)
		if err != nil {
			l.Fatal().Err(err).Str("period", *fPeriod).Msg("razorback-prices: bad period")
		}
		marks, err := ports.Quotes.Demark(ctx, *fSymbol, rng)
		if err != nil {
			l.Fatal().Err(err).Str("symbol", *fSymbol).Msg("razorback-prices: demark failed")
		}
		for _, m := range marks {
			// only completed counts are worth a line on a terminal
			if m.Setup == 0 && m.Countdown == 0 {
				continue
			}
			fmt.Printf("%s  close %.2f  setup %d  countdown %d\n",
				m.Day.Format("2006-01-02"), m.Close, m.Setup, m.Countdown)
		}

	default:
		l.Panic().Str("mode", *fMode).Msg("razorback-prices unknown -mode (expected: ingest | performance | demark)")
	}
}

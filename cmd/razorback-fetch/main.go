package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/module"
	"github.com/sliu810/razorback-investing/internal/platform/config"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	"github.com/sliu810/razorback-investing/internal/platform/store"

	"github.com/sliu810/razorback-investing/internal/core/period"
	chanmod "github.com/sliu810/razorback-investing/internal/services/channels/module"
	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	summariesmod "github.com/sliu810/razorback-investing/internal/services/summaries/module"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
	videosmod "github.com/sliu810/razorback-investing/internal/services/videos/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
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
		fChannel     = flag.String("channel", "", "channel id, stored name, or built-in name (required)")
		fPeriod      = flag.String("period", "days", "period type: today | days | weeks | months")
		fNumber      = flag.Int("number", 0, "period count (0 = the resolver default of 1)")
		fTz          = flag.String("tz", "", "IANA timezone (empty = America/Chicago)")
		fTranscripts = flag.Bool("transcripts", false, "also fetch transcripts for the window")
		fSummaries   = flag.Bool("summaries", false, "also summarize the window (implies -transcripts)")
		fPrint       = flag.Bool("print", false, "print the stored window to stdout after fetching")
	)
	flag.Parse()

	if *fChannel == "" {
		l.Panic().Msg("razorback-fetch: -channel is required")
	}

	// resolve the window up front so bad period flags fail before any network
	rng, err := period.ResolveNow(*fPeriod, *fNumber, *fTz)
	if err != nil {
		l.Fatal().Err(err).Str("period", *fPeriod).Msg("razorback-fetch: bad period flags")
	}

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	chans := chanmod.New(deps)
	module.Register(chans.Name(), chans.Ports())
	chports := module.MustPortsOf[chanmod.Ports](chans)

	vids := videosmod.New(deps, modkit.WithPorts(vdom.Ports{
		Registry: chports.Registry,
	}))
	module.Register(vids.Name(), vids.Ports())
	vports := module.MustPortsOf[videosmod.Ports](vids)

	ctx := context.Background()

	rep, err := vports.Fetcher.RefreshChannel(ctx, vdom.RefreshInput{
		ChannelRef:      *fChannel,
		PeriodType:      *fPeriod,
		Number:          *fNumber,
		Tz:              *fTz,
		WithTranscripts: *fTranscripts || *fSummaries,
	})
	if err != nil {
		l.Fatal().Err(err).Str("channel", *fChannel).Msg("razorback-fetch: refresh failed")
	}
	l.Info().
		Str("channel", *fChannel).
		Str("window", rng.String()).
		Int("found", rep.Found).
		Int("new", rep.New).
		Int("transcribed", rep.Transcribed).
		Int("failed", rep.Failed).
		Msg("razorback-fetch: refresh complete")

	if *fSummaries {
		sums := summariesmod.New(deps, modkit.WithPorts(sdom.Ports{
			Library:  vports.Reader,
			Registry: chports.Registry,
		}))
		module.Register(sums.Name(), sums.Ports())
		sports := module.MustPortsOf[summariesmod.Ports](sums)

		wrep, err := sports.Summarizer.SummarizeWindow(ctx, sdom.WindowInput{
			ChannelRef: *fChannel,
			Since:      rng.Start,
			Until:      rng.End,
		})
		if err != nil {
			l.Fatal().Err(err).Str("channel", *fChannel).Msg("razorback-fetch: summarize failed")
		}
		l.Info().
			Int("summarized", wrep.Summarized).
			Int("skipped", wrep.Skipped).
			Int("failed", wrep.Failed).
			Msg("razorback-fetch: summaries complete")
	}

	if *fPrint {
		rows, _, err := vports.Reader.List(ctx, vdom.ListInput{
			ChannelRef: *fChannel,
			Since:      rng.Start,
			Until:      rng.End,
		})
		if err != nil {
			l.Fatal().Err(err).Msg("razorback-fetch: list failed")
		}
		for _, v := range rows {
			fmt.Printf("%s  %-12s  %4dm  %s\n",
				v.PublishedAt.In(rng.Start.Location()).Format(time.RFC3339),
				v.ID, v.DurationMinutes, v.Title)
		}
		fmt.Printf("%d videos in %s\n", len(rows), rng.String())
	}
}

package main

import (
	"context"
	"flag"
	"strings"

	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/module"
	"github.com/sliu810/razorback-investing/internal/platform/config"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	"github.com/sliu810/razorback-investing/internal/platform/store"

	chanmod "github.com/sliu810/razorback-investing/internal/services/channels/module"
	cdom "github.com/sliu810/razorback-investing/internal/services/curator/domain"
	curatormod "github.com/sliu810/razorback-investing/internal/services/curator/module"
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
		fMode = flag.String("mode", "worker", "curator mode: worker | once | enqueue")

		// enqueue mode
		fChannel     = flag.String("channel", "", "enqueue: channel id, stored name, or built-in name")
		fPeriod      = flag.String("period", "days", "enqueue: period type: today | days | weeks | months")
		fNumber      = flag.Int("number", 0, "enqueue: period count (0 = the resolver default of 1)")
		fTz          = flag.String("tz", "", "enqueue: IANA timezone (empty = America/Chicago)")
		fTranscripts = flag.Bool("transcripts", false, "enqueue: fetch transcripts")
		fSummaries   = flag.Bool("summaries", false, "enqueue: summarize the window")
		fEmail       = flag.String("email", "", "enqueue: comma-separated digest recipients")
	)
	flag.Parse()

	// Shared deps
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	// The curator consumes the videos fetcher and the summaries pipeline
	chans := chanmod.New(deps)
	module.Register(chans.Name(), chans.Ports())
	chports := module.MustPortsOf[chanmod.Ports](chans)

	vids := videosmod.New(deps, modkit.WithPorts(vdom.Ports{
		Registry: chports.Registry,
	}))
	module.Register(vids.Name(), vids.Ports())
	vports := module.MustPortsOf[videosmod.Ports](vids)

	sums := summariesmod.New(deps, modkit.WithPorts(sdom.Ports{
		Library:  vports.Reader,
		Registry: chports.Registry,
	}))
	module.Register(sums.Name(), sums.Ports())
	sports := module.MustPortsOf[summariesmod.Ports](sums)

	cur := curatormod.New(deps, modkit.WithPorts(cdom.Ports{
		Fetcher:    vports.Fetcher,
		Summarizer: sports.Summarizer,
		Digests:    sports.Digests,
	}))
	module.Register(cur.Name(), cur.Ports())
	cports := module.MustPortsOf[curatormod.Ports](cur)

	ctx := context.Background()

	switch *fMode {
	case "worker":
		// Run forever (until ctx cancel) leasing due jobs
		if err := cports.Worker.Run(ctx); err != nil {
			l.Fatal().Err(err).Msg("curator worker failed")
		}

	case "once":
		// Drain everything currently due, then exit
		rep, err := cports.Worker.RunOnce(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("curator pass failed")
		}
		l.Info().Int("processed", rep.Processed).Int("failed", rep.Failed).Msg("curator pass complete")

	case "enqueue":
		if *fChannel == "" {
			l.Panic().Msg("curator enqueue mode: -channel is required")
		}
		var to []string
		for _, addr := range strings.Split(*fEmail, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				to = append(to, addr)
			}
		}
		job, err := cports.Enqueuer.Enqueue(ctx, cdom.EnqueueInput{
			ChannelRef:      *fChannel,
			PeriodType:      *fPeriod,
			Number:          *fNumber,
			Tz:              *fTz,
			WithTranscripts: *fTranscripts,
			WithSummaries:   *fSummaries,
			EmailTo:         to,
		})
		if err != nil {
			l.Fatal().Err(err).Str("channel", *fChannel).Msg("curator enqueue failed")
		}
		l.Info().Str("job", job.ID).Str("channel", job.ChannelRef).Msg("curator job queued")

	default:
		l.Panic().Str("mode", *fMode).Msg("curator unknown -mode (expected: worker | once | enqueue)")
	}
}

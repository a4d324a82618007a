// Package api provides the HTTP API for the application
package api

import (
	"github.com/sliu810/razorback-investing/internal/platform/config"
	"github.com/sliu810/razorback-investing/internal/platform/logger"
	phttp "github.com/sliu810/razorback-investing/internal/platform/net/http"
	"github.com/sliu810/razorback-investing/internal/platform/store"

	"github.com/sliu810/razorback-investing/internal/modkit"
	"github.com/sliu810/razorback-investing/internal/modkit/httpkit"
	"github.com/sliu810/razorback-investing/internal/modkit/module"
	"github.com/sliu810/razorback-investing/internal/modkit/swaggerkit"

	apichannels "github.com/sliu810/razorback-investing/internal/services/api/channels/module"
	apicurator "github.com/sliu810/razorback-investing/internal/services/api/curator/module"
	metamod "github.com/sliu810/razorback-investing/internal/services/api/meta/module"
	apiprices "github.com/sliu810/razorback-investing/internal/services/api/prices/module"
	apisummaries "github.com/sliu810/razorback-investing/internal/services/api/summaries/module"
	apivideos "github.com/sliu810/razorback-investing/internal/services/api/videos/module"

	// Worker modules own the adapters and the ports the read API consumes
	chanmod "github.com/sliu810/razorback-investing/internal/services/channels/module"
	cdom "github.com/sliu810/razorback-investing/internal/services/curator/domain"
	curatormod "github.com/sliu810/razorback-investing/internal/services/curator/module"
	pricesmod "github.com/sliu810/razorback-investing/internal/services/prices/module"
	sdom "github.com/sliu810/razorback-investing/internal/services/summaries/domain"
	summariesmod "github.com/sliu810/razorback-investing/internal/services/summaries/module"
	vdom "github.com/sliu810/razorback-investing/internal/services/videos/domain"
	videosmod "github.com/sliu810/razorback-investing/internal/services/videos/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Construct the worker modules first and extract their ports.
	// channels owns the registry; videos owns the upstream adapters and
	// resolves against the registry; summaries needs the videos Reader as
	// its transcript library
	chans := chanmod.New(deps)
	chports := module.MustPortsOf[chanmod.Ports](chans)

	vids := videosmod.New(deps, modkit.WithPorts(vdom.Ports{
		Registry: chports.Registry,
	}))
	vports := module.MustPortsOf[videosmod.Ports](vids)

	sums := summariesmod.New(deps, modkit.WithPorts(sdom.Ports{
		Library:  vports.Reader,
		Registry: chports.Registry,
	}))
	sports := module.MustPortsOf[summariesmod.Ports](sums)

	cur := curatormod.New(deps, modkit.WithPorts(cdom.Ports{
		Fetcher:    vports.Fetcher,
		Summarizer: sports.Summarizer,
		Digests:    sports.Digests,
	}))
	cports := module.MustPortsOf[curatormod.Ports](cur)

	prc := pricesmod.New(deps)
	pports := module.MustPortsOf[pricesmod.Ports](prc)

	// Inject the worker ports into the read-side API modules
	mods := []module.Module{
		chans, // include workers so their ports are registered
		vids,
		sums,
		cur,
		prc,
		apichannels.New(deps, modkit.WithPorts(apichannels.Ports{
			Registry: chports.Registry,
		})),
		apivideos.New(deps, modkit.WithPorts(apivideos.Ports{
			Library: vports.Reader,
		})),
		apisummaries.New(deps, modkit.WithPorts(apisummaries.Ports{
			Reader: sports.Reader,
		})),
		apiprices.New(deps, modkit.WithPorts(apiprices.Ports{
			Quotes: pports.Quotes,
		})),
		apicurator.New(deps, modkit.WithPorts(apicurator.Ports{
			Enqueuer: cports.Enqueuer,
		})),
	}

	// probes and build info live at the root, outside the versioned prefix
	metamod.New(deps).MountRoutes(r)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}

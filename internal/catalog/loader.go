package catalog

import (
	"context"

	"studio/internal/domain"
	"studio/internal/metrics"
	"studio/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Source string

const (
	SourceRemote Source = "remote"
	SourceSample Source = "sample"
)

// Catalog is the services and portfolio shown to visitors. Both collections are
// always non-empty.
type Catalog struct {
	Services        []models.Service       `json:"services"`
	Portfolio       []models.PortfolioItem `json:"portfolio"`
	ServicesSource  Source                 `json:"services_source"`
	PortfolioSource Source                 `json:"portfolio_source"`
}

// Featured returns the first featured portfolio item.
func (c Catalog) Featured() (models.PortfolioItem, bool) {
	for _, item := range c.Portfolio {
		if item.Featured {
			return item, true
		}
	}
	return models.PortfolioItem{}, false
}

// Pick resolves a collection: a non-empty remote sequence wins, anything else
// (empty or nil after a failed fetch) resolves to sample.
func Pick[T any](remote, sample []T) []T {
	if len(remote) > 0 {
		return remote
	}
	return sample
}

// Loader performs the one-shot catalog load.
type Loader struct {
	gw     domain.Getter
	logger *zerolog.Logger
}

func NewLoader(gw domain.Getter, logger *zerolog.Logger) *Loader {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Loader{gw: gw, logger: logger}
}

// Load fetches both collections concurrently. Fetch errors are never returned:
// they only decide the fallback to sample data.
func (l *Loader) Load(ctx context.Context) Catalog {
	var (
		g         errgroup.Group
		services  []models.Service
		portfolio []models.PortfolioItem
	)

	g.Go(func() error {
		services = fetch[models.Service](ctx, l, "/services", models.CollectionServices)
		return nil
	})
	g.Go(func() error {
		portfolio = fetch[models.PortfolioItem](ctx, l, "/portfolio", models.CollectionPortfolio)
		return nil
	})
	_ = g.Wait()

	cat := Catalog{
		Services:        Pick(services, SampleServices()),
		Portfolio:       Pick(portfolio, SamplePortfolio()),
		ServicesSource:  sourceOf(len(services)),
		PortfolioSource: sourceOf(len(portfolio)),
	}
	if cat.ServicesSource == SourceSample {
		metrics.IncCatalogFallback(models.CollectionServices)
	}
	if cat.PortfolioSource == SourceSample {
		metrics.IncCatalogFallback(models.CollectionPortfolio)
	}

	l.logger.Info().
		Str("services_source", string(cat.ServicesSource)).
		Int("services", len(cat.Services)).
		Str("portfolio_source", string(cat.PortfolioSource)).
		Int("portfolio", len(cat.Portfolio)).
		Msg("catalog loaded")

	return cat
}

func fetch[T any](ctx context.Context, l *Loader, path, collection string) []T {
	var out []T
	if err := l.gw.Get(ctx, path, &out); err != nil {
		l.logger.Warn().Err(err).Str("collection", collection).Msg("catalog fetch failed, using samples")
		return nil
	}
	if len(out) == 0 {
		l.logger.Info().Str("collection", collection).Msg("catalog collection empty, using samples")
	}
	return out
}

func sourceOf(remoteLen int) Source {
	if remoteLen > 0 {
		return SourceRemote
	}
	return SourceSample
}

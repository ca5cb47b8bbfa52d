package http

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/errs"
	"github.com/keboola/waii-integration/pkg/keboola"
	"github.com/keboola/waii-integration/pkg/service"
)

const (
	// UnknownComponentDescription is returned for component ids the
	// catalog no longer knows about. Lookups are best effort and a
	// missing component must never abort a run.
	UnknownComponentDescription = "Unknown component"

	componentCacheSize = 512
)

var _ service.ComponentResolver = &componentResolver{}

type componentResolver struct {
	fetcher keboola.Fetcher
	cache   *lru.Cache[string, string]
	log     zerolog.Logger
}

func (r *componentResolver) Describe(ctx context.Context, componentID string) (string, error) {
	const op errs.Op = "componentResolver.Describe"

	if description, ok := r.cache.Get(componentID); ok {
		return description, nil
	}

	component, err := r.fetcher.GetComponent(ctx, componentID)
	if err != nil {
		if errs.KindIs(errs.NotExist, err) {
			r.log.Warn().Str("component_id", componentID).Msg("component not found in catalog")
			r.cache.Add(componentID, UnknownComponentDescription)

			return UnknownComponentDescription, nil
		}

		return "", errs.E(op, err, errs.Parameter("component_id"))
	}

	description := component.DisplayDescription()
	r.cache.Add(componentID, description)

	return description, nil
}

func NewComponentResolver(fetcher keboola.Fetcher, log zerolog.Logger) *componentResolver {
	cache, _ := lru.New[string, string](componentCacheSize)

	return &componentResolver{
		fetcher: fetcher,
		cache:   cache,
		log:     log,
	}
}

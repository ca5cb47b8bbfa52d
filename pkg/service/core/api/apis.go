package api

import (
	"github.com/rs/zerolog"

	"github.com/keboola/waii-integration/pkg/keboola"
	"github.com/keboola/waii-integration/pkg/service"
	httpapi "github.com/keboola/waii-integration/pkg/service/core/api/http"
	"github.com/keboola/waii-integration/pkg/waii"
)

type Clients struct {
	CatalogAPI         service.CatalogAPI
	ComponentResolver  service.ComponentResolver
	SemanticContextAPI service.SemanticContextAPI
}

func NewClients(
	keboolaFetcher keboola.Fetcher,
	waiiFetcher waii.Fetcher,
	log zerolog.Logger,
) *Clients {
	return &Clients{
		CatalogAPI: httpapi.NewCatalogAPI(
			keboolaFetcher,
			log.With().Str("component", "catalog").Logger(),
		),
		ComponentResolver: httpapi.NewComponentResolver(
			keboolaFetcher,
			log.With().Str("component", "components").Logger(),
		),
		SemanticContextAPI: httpapi.NewSemanticContextAPI(waiiFetcher),
	}
}

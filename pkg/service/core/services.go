package core

import "github.com/keboola/waii-integration/pkg/service"

type Services struct {
	CollectorService       service.CollectorService
	SemanticContextService service.SemanticContextService
}

func NewServices(
	collectorService service.CollectorService,
	semanticContextService service.SemanticContextService,
) *Services {
	return &Services{
		CollectorService:       collectorService,
		SemanticContextService: semanticContextService,
	}
}

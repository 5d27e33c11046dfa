// controller/controllers.go

package controller

import (
	"github.com/dairyops/herdwise/api/audit"
	"github.com/dairyops/herdwise/api/cache"
	"github.com/dairyops/herdwise/api/service"
)

// Controllers aggregates all HTTP controllers for router wiring.
type Controllers struct {
	Flag    *FlagController
	Metrics *MetricsController
	Audit   *AuditController
}

func NewControllers(
	flagService service.IFlagService,
	auditService audit.Service,
	tracker *cache.Tracker,
) *Controllers {
	return &Controllers{
		Flag:    NewFlagController(flagService),
		Metrics: NewMetricsController(tracker),
		Audit:   NewAuditController(auditService),
	}
}

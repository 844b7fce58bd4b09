package worker

import (
	"github.com/homebuilt/warranty-service/internal/events"
	"github.com/homebuilt/warranty-service/internal/service"
)

// StartEventSubscribers registers notification and cache invalidation handlers
// on the dispatcher.
func StartEventSubscribers(dispatcher events.Dispatcher, notifications *service.NotificationService, dashboard *service.DashboardService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if dashboard != nil {
		dashboard.RegisterInvalidation(dispatcher)
	}
}

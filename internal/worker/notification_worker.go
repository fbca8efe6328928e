package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/ordering-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to order
// events. Handlers run inline on the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker subscribed to order events")
	}
}

// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dairyops/herdwise/api/logging"
	"github.com/dairyops/herdwise/api/model"
)

type NotificationService struct {
	// Dependencies such as a message queue client would live here
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyFlagChange(ctx context.Context, changeType string, flag model.CapabilityFlag) error {
	switch changeType {
	case "updated":
		logger.Info("NOTIFICATION: Capability flag updated",
			zap.String("key", flag.Key),
			zap.Int("rolloutPercentage", flag.RolloutPercentage))
	case "reset":
		logger.Info("NOTIFICATION: Capability flag reset to default",
			zap.String("key", flag.Key))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}

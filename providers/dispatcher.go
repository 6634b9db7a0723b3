package providers

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/smartkrishi/smart-krishi-api/models"
)

type DeliveryResult struct {
	Delivered bool
	Channel   string
}

// Dispatcher delivers a stored notification to the farmer (SMS, WhatsApp).
type Dispatcher interface {
	Send(ctx context.Context, n *models.Notification) (DeliveryResult, error)
}

// LogDispatcher records the notification in the service log and delivers
// nothing.
type LogDispatcher struct {
	log *logrus.Logger
}

func NewLogDispatcher(log *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Send(_ context.Context, n *models.Notification) (DeliveryResult, error) {
	d.log.WithFields(logrus.Fields{
		"notificationId": n.ID.Hex(),
		"userId":         n.UserID,
		"type":           n.Type,
	}).Info("notification queued (log only)")
	return DeliveryResult{Delivered: false, Channel: "log"}, nil
}

// services/notifier.go
package services

import (
	"fmt"
	"os"
	"time"

	"mecanosync-backend/config"
	"mecanosync-backend/models"
	"mecanosync-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OverdueNotifier texts customers of shops that opted into SMS
// notifications whenever one of their open orders has slipped past its
// expected delivery date. Every attempt is recorded in NotificationLog.
type OverdueNotifier struct {
	db   *gorm.DB
	from string
	send func(to, body string) error
}

func NewOverdueNotifier(db *gorm.DB) *OverdueNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_FROM_NUMBER")

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	n := &OverdueNotifier{db: db, from: from}
	n.send = func(to, body string) error {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(to)
		params.SetFrom(n.from)
		params.SetBody(body)
		_, err := client.Api.CreateMessage(params)
		return err
	}
	return n
}

// StartScheduler runs the notifier every day at 9 AM.
func (n *OverdueNotifier) StartScheduler() {
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		config.Log.Warn("twilio credentials missing, overdue notifier disabled")
		return
	}

	c := cron.New()
	c.AddFunc("0 9 * * *", n.Run)
	c.Start()
	config.Log.Info("overdue notifier scheduler started")
}

// Run processes every active shop that enabled SMS notifications.
func (n *OverdueNotifier) Run() {
	var shops []models.Shop
	if err := n.db.Where("is_active = ? AND sms_notifications = ?", true, true).
		Find(&shops).Error; err != nil {
		config.Log.Error("failed to fetch shops", zap.Error(err))
		return
	}

	for _, shop := range shops {
		n.processShop(shop)
	}
}

func (n *OverdueNotifier) processShop(shop models.Shop) {
	today := utils.BeginningOfDay(time.Now())

	var orders []models.ServiceOrder
	err := n.db.Preload("Customer").Preload("Vehicle").
		Where("shop_id = ? AND expected_delivery < ? AND status IN ?",
			shop.ID, today, models.OpenOrderStatuses).
		Find(&orders).Error
	if err != nil {
		config.Log.Error("failed to fetch overdue orders",
			zap.String("shop", shop.ID.String()), zap.Error(err))
		return
	}

	for _, order := range orders {
		if order.Customer == nil || order.Customer.Phone == "" {
			continue
		}

		// One notification per order per day.
		var sentToday int64
		n.db.Model(&models.NotificationLog{}).
			Where("order_id = ? AND sent_at >= ? AND status = ?", order.ID, today, "sent").
			Count(&sentToday)
		if sentToday > 0 {
			continue
		}

		message := fmt.Sprintf(
			"%s: service order %s for your %s %s is past its expected delivery date. We will contact you shortly.",
			shop.Name, order.OrderNumber, order.Vehicle.Make, order.Vehicle.Model)

		logEntry := models.NotificationLog{
			ShopID:     shop.ID,
			CustomerID: order.CustomerID,
			OrderID:    order.ID,
			Type:       "overdue",
			Message:    message,
			Channel:    "sms",
			SentAt:     time.Now(),
		}

		if err := n.send(order.Customer.Phone, message); err != nil {
			logEntry.Status = "failed"
			logEntry.ErrorMessage = err.Error()
			config.Log.Error("failed to send overdue notification",
				zap.String("order", order.OrderNumber), zap.Error(err))
		} else {
			logEntry.Status = "sent"
		}

		if err := n.db.Create(&logEntry).Error; err != nil {
			config.Log.Error("failed to record notification",
				zap.String("order", order.OrderNumber), zap.Error(err))
		}
	}
}

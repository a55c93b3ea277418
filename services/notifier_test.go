package services

import (
	"errors"
	"testing"
	"time"

	"mecanosync-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierTextsOverdueOrdersOnce(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	require.NoError(t, db.Model(&shop).Update("sms_notifications", true).Error)

	order := seedOrder(t, db, shop, "1001", "100.00")
	require.NoError(t, db.Model(&order).
		Update("expected_delivery", time.Now().AddDate(0, 0, -1)).Error)

	var sent []string
	notifier := &OverdueNotifier{
		db:   db,
		from: "+15550000000",
		send: func(to, body string) error {
			sent = append(sent, to)
			return nil
		},
	}

	notifier.Run()
	notifier.Run() // same day, must not text again

	require.Len(t, sent, 1)

	var logs []models.NotificationLog
	require.NoError(t, db.Where("order_id = ?", order.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "sent", logs[0].Status)
	assert.Equal(t, "sms", logs[0].Channel)
	assert.Equal(t, "overdue", logs[0].Type)
	assert.Contains(t, logs[0].Message, order.OrderNumber)
}

func TestNotifierSkipsShopsWithoutOptIn(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a") // sms_notifications stays false

	order := seedOrder(t, db, shop, "1001", "100.00")
	require.NoError(t, db.Model(&order).
		Update("expected_delivery", time.Now().AddDate(0, 0, -1)).Error)

	called := false
	notifier := &OverdueNotifier{
		db:   db,
		send: func(to, body string) error { called = true; return nil },
	}
	notifier.Run()
	assert.False(t, called)
}

func TestNotifierRecordsSendFailures(t *testing.T) {
	db := openTestDB(t)
	shop := seedShop(t, db, "oficina-a")
	require.NoError(t, db.Model(&shop).Update("sms_notifications", true).Error)

	order := seedOrder(t, db, shop, "1001", "100.00")
	require.NoError(t, db.Model(&order).
		Update("expected_delivery", time.Now().AddDate(0, 0, -1)).Error)

	notifier := &OverdueNotifier{
		db:   db,
		send: func(to, body string) error { return errors.New("carrier unreachable") },
	}
	notifier.Run()

	var logEntry models.NotificationLog
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&logEntry).Error)
	assert.Equal(t, "failed", logEntry.Status)
	assert.Equal(t, "carrier unreachable", logEntry.ErrorMessage)

	// A failed attempt does not count as sent, so the next run retries.
	var sent []string
	notifier.send = func(to, body string) error { sent = append(sent, to); return nil }
	notifier.Run()
	assert.Len(t, sent, 1)
}

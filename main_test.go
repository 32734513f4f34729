package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/models"
	"storefront/pkg/rabbitmq"

	"github.com/shopspring/decimal"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestHealthReportsDatabase(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)

	app := handlers.NewApp(buildServices(db, "test_jwt_secret", nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuditOrderEvent(t *testing.T) {
	event := models.OrderEvent{
		Type:        models.OrderEventCreated,
		OrderID:     3,
		UserID:      1,
		Status:      models.OrderStatusNew,
		TotalAmount: decimal.RequireFromString("35.00"),
	}
	msg, err := rabbitmq.NewMessage(event.Type, event)
	require.NoError(t, err)

	delivery := amqp.Delivery{Type: msg.Type, MessageId: msg.MessageId, Body: msg.Body}
	assert.NoError(t, auditOrderEvent(delivery))

	delivery.Type = models.OrderEventDeleted
	assert.Error(t, auditOrderEvent(delivery))

	assert.Error(t, auditOrderEvent(amqp.Delivery{Type: models.OrderEventCreated, Body: []byte("{")}))
}

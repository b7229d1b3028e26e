package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/crazycusti/ticket-desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerDisabled(t *testing.T) {
	for _, p := range []*Producer{NewProducer(nil, "tickets"), NewProducer([]string{"localhost:9092"}, "")} {
		assert.False(t, p.Enabled())
		// No writer: must not block or panic.
		p.ProduceTicketEvent(context.Background(), EventTicketCreated, &model.Ticket{UID: "AAAA2222"})
		assert.NoError(t, p.Close())
	}
}

func TestNewTicketEvent(t *testing.T) {
	updated := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	tk := &model.Ticket{
		ID:           7,
		UID:          "ABCD2345",
		CustomerName: "Max",
		Subject:      "Dach",
		Note:         "intern",
		StartAt:      "2026-07-02T08:00",
		EndAt:        "2026-07-02T10:00",
		Status:       model.TicketStatusInProgress,
		UpdatedAt:    updated,
	}

	body, err := json.Marshal(NewTicketEvent(EventTicketStatusChanged, tk))
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "ticket.status_changed", got["event"])
	assert.Equal(t, "ABCD2345", got["uid"])
	assert.Equal(t, "In Bearbeitung", got["status"])
	assert.NotContains(t, got, "note")
	assert.NotContains(t, got, "id")
}

package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/crazycusti/ticket-desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTickets(t *testing.T) {
	created := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{
			UID:          "BBBB3333",
			CustomerName: "Erika Mustermann",
			Subject:      "Heizung",
			StartAt:      "2026-06-02T08:00",
			EndAt:        "2026-06-02T12:00",
			Status:       model.TicketStatusDone,
			CreatedAt:    created.Add(time.Hour),
		},
		{
			UID:          "AAAA2222",
			CustomerName: "Max",
			Subject:      "Fenster tauschen",
			StartAt:      "2026-06-01T08:00",
			EndAt:        "2026-06-01T16:00",
			Status:       model.TicketStatusOpen,
			CreatedAt:    created,
		},
	}

	var buf bytes.Buffer
	renderTickets(&buf, tickets)
	out := buf.String()

	for _, h := range []string{"UID", "KUNDE", "BETREFF", "START", "ENDE", "STATUS", "ERSTELLT"} {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, out, "Erika Mustermann")
	assert.Contains(t, out, string(model.TicketStatusDone))
	assert.Contains(t, out, created.Local().Format(time.DateTime))

	// Rows keep the order they were given in.
	first := strings.Index(out, "BBBB3333")
	second := strings.Index(out, "AAAA2222")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestRenderTicketsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderTickets(&buf, nil)
	assert.Contains(t, buf.String(), "UID")
	assert.NotContains(t, buf.String(), "AAAA2222")
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/crazycusti/ticket-desk/internal/application"
	"github.com/crazycusti/ticket-desk/internal/kafka"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/crazycusti/ticket-desk/internal/model"
	"github.com/spf13/cobra"
)

var replayEventsCmd = &cobra.Command{
	Use:   "replay-events",
	Short: "Republish every ticket to Kafka as a ticket.replayed event",
	RunE:  runReplayEvents,
}

func init() {
	rootCmd.AddCommand(replayEventsCmd)
}

func runReplayEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicTicket)
	if !producer.Enabled() {
		return fmt.Errorf("replay-events: KAFKA_BROKERS and KAFKA_TOPIC_TICKET must be set")
	}
	defer producer.Close()

	engine, svc, err := application.NewStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer engine.Close()

	tickets, err := svc.ListTickets(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	logger.Sugar.Infof("replay-events: found %d tickets", len(tickets))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	replayTickets(ctx, tickets, producer, func(sent, total int) {
		logger.Sugar.Infof("replay-events: sent %d/%d", sent, total)
	})
	return nil
}

// replayProgressEvery is how many events pass between progress reports.
const replayProgressEvery = 50

// replayTickets publishes tickets, given newest first, oldest first so consumers see
// them in creation order. progress is called every replayProgressEvery events and
// after the last one. It returns the number of events sent.
func replayTickets(ctx context.Context, tickets []model.Ticket, producer kafka.TicketEventProducer, progress func(sent, total int)) int {
	sent := 0
	for i := len(tickets) - 1; i >= 0; i-- {
		producer.ProduceTicketEvent(ctx, kafka.EventTicketReplayed, &tickets[i])
		sent++
		if sent%replayProgressEvery == 0 || i == 0 {
			progress(sent, len(tickets))
		}
	}
	return sent
}

package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/crazycusti/ticket-desk/internal/application"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/crazycusti/ticket-desk/internal/model"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all tickets, newest first",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	engine, svc, err := application.NewStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer engine.Close()

	tickets, err := svc.ListTickets(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}

	renderTickets(os.Stdout, tickets)
	return nil
}

func renderTickets(w io.Writer, tickets []model.Ticket) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"UID", "Kunde", "Betreff", "Start", "Ende", "Status", "Erstellt"})
	for _, t := range tickets {
		table.Append([]string{
			t.UID,
			t.CustomerName,
			t.Subject,
			t.StartAt,
			t.EndAt,
			string(t.Status),
			t.CreatedAt.Local().Format(time.DateTime),
		})
	}
	table.Render()
}

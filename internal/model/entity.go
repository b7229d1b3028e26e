package model

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Offen"
	TicketStatusInProgress TicketStatus = "In Bearbeitung"
	TicketStatusDone       TicketStatus = "Erledigt"
	TicketStatusCancelled  TicketStatus = "Abgebrochen"
)

// Statuses returns every known status in display order.
func Statuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusDone, TicketStatusCancelled}
}

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusDone, TicketStatusCancelled:
		return true
	}
	return false
}

type Ticket struct {
	ID           uint64       `gorm:"primaryKey;autoIncrement" json:"-"`
	UID          string       `gorm:"column:uid;uniqueIndex;not null" json:"uid"`
	CustomerName string       `gorm:"not null" json:"customer_name"`
	Subject      string       `gorm:"not null" json:"subject"`
	Note         string       `gorm:"not null" json:"note"`
	StartAt      string       `gorm:"not null" json:"start_at"`
	EndAt        string       `gorm:"not null" json:"end_at"`
	Status       TicketStatus `gorm:"not null;default:Offen" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// NewTicket carries the caller-supplied fields of a ticket. Callers validate them.
type NewTicket struct {
	CustomerName string
	Subject      string
	Note         string
	StartAt      string
	EndAt        string
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crazycusti/ticket-desk/internal/database"
	"github.com/crazycusti/ticket-desk/internal/errs"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/crazycusti/ticket-desk/internal/model"
	"github.com/crazycusti/ticket-desk/internal/uid"
	"gorm.io/gorm"
)

// DefaultMaxUIDAttempts bounds uid generation when no limit is configured.
const DefaultMaxUIDAttempts = 5

// TicketServicer — контракт хранилища тикетов для HTTP-слоя.
type TicketServicer interface {
	CreateTicket(ctx context.Context, in model.NewTicket) (string, error)
	FindTicketByUID(ctx context.Context, uid string) (*model.Ticket, bool, error)
	ListTickets(ctx context.Context) ([]model.Ticket, error)
	UpdateTicketStatus(ctx context.Context, uid string, status model.TicketStatus) error
}

// TicketService stores tickets in the engine's in-memory database and persists a
// snapshot after every mutation. Mutations are serialized so a snapshot never misses a
// concurrent write.
type TicketService struct {
	engine      *database.Engine
	uids        uid.Generator
	maxAttempts int
	now         func() time.Time

	mu sync.RWMutex
}

type Option func(*TicketService)

func WithUIDGenerator(g uid.Generator) Option {
	return func(s *TicketService) {
		s.uids = g
	}
}

// WithMaxUIDAttempts sets how many uid candidates CreateTicket tries. Values below 1 are ignored.
func WithMaxUIDAttempts(n int) Option {
	return func(s *TicketService) {
		if n >= 1 {
			s.maxAttempts = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *TicketService) {
		s.now = now
	}
}

func NewTicketService(engine *database.Engine, opts ...Option) *TicketService {
	s := &TicketService{
		engine:      engine,
		uids:        uid.NanoID{},
		maxAttempts: DefaultMaxUIDAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// db waits for the engine and returns a handle bound to a context that is never
// cancelled: once started, store operations always run to completion.
func (s *TicketService) db(ctx context.Context) (*gorm.DB, error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.engine.EnsureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.engine.DB().WithContext(ctx), nil
}

func (s *TicketService) timestamp() time.Time {
	return s.now().UTC().Round(0)
}

// CreateTicket inserts a new ticket with status Offen and returns its uid.
func (s *TicketService) CreateTicket(ctx context.Context, in model.NewTicket) (string, error) {
	db, err := s.db(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueUID(db)
	if err != nil {
		return "", err
	}

	now := s.timestamp()
	t := &model.Ticket{
		UID:          id,
		CustomerName: in.CustomerName,
		Subject:      in.Subject,
		Note:         in.Note,
		StartAt:      in.StartAt,
		EndAt:        in.EndAt,
		Status:       model.TicketStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(t).Error; err != nil {
		return "", fmt.Errorf("insert ticket: %w", err)
	}
	if err := s.engine.Persist(context.WithoutCancel(ctx)); err != nil {
		return "", err
	}
	logger.Sugar.Infow("ticket created", "uid", id)
	return id, nil
}

func (s *TicketService) uniqueUID(db *gorm.DB) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		candidate, err := s.uids.Generate()
		if err != nil {
			return "", fmt.Errorf("generate uid: %w", err)
		}
		var n int64
		if err := db.Model(&model.Ticket{}).Where("uid = ?", candidate).Count(&n).Error; err != nil {
			return "", fmt.Errorf("check uid: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
		logger.Sugar.Warnf("service: uid collision on attempt %d/%d", attempt, s.maxAttempts)
	}
	return "", fmt.Errorf("%w after %d attempts", errs.ErrUIDExhausted, s.maxAttempts)
}

// FindTicketByUID returns the ticket with the given uid. A miss is reported through the
// boolean, not as an error.
func (s *TicketService) FindTicketByUID(ctx context.Context, uid string) (*model.Ticket, bool, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var t model.Ticket
	if err := db.Where("uid = ?", uid).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &t, true, nil
}

// ListTickets returns every ticket, newest first.
func (s *TicketService) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []model.Ticket{}
	if err := db.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateTicketStatus sets the status of the ticket with the given uid. Any status may
// follow any other. It returns errs.ErrTicketNotFound when no ticket matches.
//
// updated_at always moves forward, even when the clock stalls or steps back.
func (s *TicketService) UpdateTicketStatus(ctx context.Context, uid string, status model.TicketStatus) error {
	db, err := s.db(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prev model.Ticket
	if err := db.Select("id", "updated_at").Where("uid = ?", uid).First(&prev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrTicketNotFound
		}
		return fmt.Errorf("load ticket: %w", err)
	}
	ts := s.timestamp()
	if !ts.After(prev.UpdatedAt) {
		ts = prev.UpdatedAt.UTC().Add(time.Nanosecond)
	}

	res := db.Model(&model.Ticket{}).Where("id = ?", prev.ID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": ts,
	})
	if res.Error != nil {
		return fmt.Errorf("update ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrTicketNotFound
	}
	if err := s.engine.Persist(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	logger.Sugar.Infow("ticket status changed", "uid", uid, "status", status)
	return nil
}

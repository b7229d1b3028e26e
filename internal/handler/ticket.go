package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/crazycusti/ticket-desk/internal/errs"
	"github.com/crazycusti/ticket-desk/internal/kafka"
	"github.com/crazycusti/ticket-desk/internal/logger"
	"github.com/crazycusti/ticket-desk/internal/model"
	"github.com/crazycusti/ticket-desk/internal/service"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	svc      service.TicketServicer
	producer kafka.TicketEventProducer
}

// NewTicketHandler wires the store. producer may be nil.
func NewTicketHandler(svc service.TicketServicer, producer kafka.TicketEventProducer) *TicketHandler {
	return &TicketHandler{svc: svc, producer: producer}
}

type createTicketRequest struct {
	CustomerName string `json:"customer_name" form:"customer_name"`
	Subject      string `json:"subject" form:"subject"`
	Note         string `json:"note" form:"note"`
	StartAt      string `json:"start_at" form:"start_at"`
	EndAt        string `json:"end_at" form:"end_at"`
}

func (r createTicketRequest) toModel() (model.NewTicket, bool) {
	in := model.NewTicket{
		CustomerName: strings.TrimSpace(r.CustomerName),
		Subject:      strings.TrimSpace(r.Subject),
		Note:         strings.TrimSpace(r.Note),
		StartAt:      strings.TrimSpace(r.StartAt),
		EndAt:        strings.TrimSpace(r.EndAt),
	}
	ok := in.CustomerName != "" && in.Subject != "" && in.Note != "" && in.StartAt != "" && in.EndAt != ""
	return in, ok
}

// Create accepts JSON or form bodies.
func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	in, ok := req.toModel()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer_name, subject, note, start_at and end_at are required"})
		return
	}
	uid, err := h.svc.CreateTicket(c.Request.Context(), in)
	if err != nil {
		logger.Sugar.Errorf("handler: create ticket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	h.publish(c.Request.Context(), kafka.EventTicketCreated, uid)
	c.JSON(http.StatusCreated, gin.H{"uid": uid})
}

func (h *TicketHandler) Get(c *gin.Context) {
	uid := strings.TrimSpace(c.Param("uid"))
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
		return
	}
	t, found, err := h.svc.FindTicketByUID(c.Request.Context(), uid)
	if err != nil {
		logger.Sugar.Errorf("handler: find ticket %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ticket"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) List(c *gin.Context) {
	items, err := h.svc.ListTickets(c.Request.Context())
	if err != nil {
		logger.Sugar.Errorf("handler: list tickets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets":  items,
		"total":    len(items),
		"statuses": model.Statuses(),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" form:"status"`
}

func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	uid := strings.TrimSpace(c.Param("uid"))
	var req updateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	status := model.TicketStatus(req.Status)
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status", "statuses": model.Statuses()})
		return
	}
	if err := h.svc.UpdateTicketStatus(c.Request.Context(), uid, status); err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		logger.Sugar.Errorf("handler: update ticket %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		return
	}
	h.publish(c.Request.Context(), kafka.EventTicketStatusChanged, uid)
	c.JSON(http.StatusOK, gin.H{"uid": uid, "status": status})
}

// publish sends the ticket's current state without delaying the response.
func (h *TicketHandler) publish(ctx context.Context, event, uid string) {
	if h.producer == nil {
		return
	}
	t, found, err := h.svc.FindTicketByUID(ctx, uid)
	if err != nil || !found {
		return
	}
	go func() {
		eventCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.producer.ProduceTicketEvent(eventCtx, event, t)
	}()
}

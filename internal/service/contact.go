package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
)

const (
	defaultContactLimit = 20
	maxContactLimit     = 100
)

// ContactPage is a page of submissions with the total matching the filter.
type ContactPage struct {
	Items []model.Contact
	Total int
	Page  int
	Limit int
}

// Contact handles contact form submissions and their triage.
type Contact struct {
	store  model.ContactStore
	logger *logger.Logger
	now    func() time.Time
}

// NewContact creates the Contact service.
func NewContact(store model.ContactStore, logger *logger.Logger) *Contact {
	return &Contact{store: store, logger: logger, now: time.Now}
}

// Submit stores a new submission in status new.
func (c *Contact) Submit(ctx context.Context, sub model.ContactSubmission) (model.Contact, error) {
	category := sub.Category
	if category == "" {
		category = model.ContactCategoryGeneral
	}

	now := c.now()
	contact, err := c.store.Create(ctx, model.Contact{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(sub.Name),
		Email:       normalizeEmail(sub.Email),
		Phone:       strings.TrimSpace(sub.Phone),
		Subject:     strings.TrimSpace(sub.Subject),
		Message:     strings.TrimSpace(sub.Message),
		Category:    category,
		Status:      model.ContactStatusNew,
		Priority:    model.ContactPriorityMedium,
		SubmittedBy: sub.SubmittedBy,
		IPAddress:   sub.IPAddress,
		UserAgent:   sub.UserAgent,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		c.logger.Error("Contact service: failed to create contact",
			"error", err.Error())
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	c.logger.Info("Contact service: contact submitted",
		"contact_id", contact.ID,
		"category", contact.Category)

	return contact, nil
}

// List returns a page of submissions, newest first.
func (c *Contact) List(ctx context.Context, filter model.ContactFilter) (ContactPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	switch {
	case filter.Limit < 1:
		filter.Limit = defaultContactLimit
	case filter.Limit > maxContactLimit:
		filter.Limit = maxContactLimit
	}

	items, total, err := c.store.List(ctx, filter)
	if err != nil {
		return ContactPage{}, fmt.Errorf("failed to list contacts: %w", err)
	}

	return ContactPage{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Get returns a single submission.
func (c *Contact) Get(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	contact, err := c.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.Contact{}, model.ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

// Update changes status or priority of a submission and optionally records a
// response from responder.
func (c *Contact) Update(ctx context.Context, id uuid.UUID, upd model.ContactUpdate, responder uuid.UUID) (model.Contact, error) {
	contact, err := c.Get(ctx, id)
	if err != nil {
		return model.Contact{}, err
	}

	now := c.now()
	if upd.Status != "" {
		contact.Status = upd.Status
	}
	if upd.Priority != "" {
		contact.Priority = upd.Priority
	}
	if msg := strings.TrimSpace(upd.ResponseMessage); msg != "" {
		contact.Responded = true
		contact.Response = &model.ContactResponse{
			Message:     msg,
			RespondedBy: responder,
			RespondedAt: now,
		}
	}
	contact.UpdatedAt = now

	contact, err = c.store.Update(ctx, contact)
	if err != nil {
		c.logger.Error("Contact service: failed to update contact",
			"contact_id", id,
			"error", err.Error())
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	c.logger.Info("Contact service: contact updated",
		"contact_id", id,
		"status", contact.Status,
		"responder", responder)

	return contact, nil
}

// Stats counts submissions by status and category.
func (c *Contact) Stats(ctx context.Context) (model.ContactStats, error) {
	stats, err := c.store.Stats(ctx)
	if err != nil {
		return model.ContactStats{}, fmt.Errorf("failed to get contact stats: %w", err)
	}
	return stats, nil
}

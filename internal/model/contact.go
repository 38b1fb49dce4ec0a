package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ContactStore defines persistence operations for contact form submissions.
type ContactStore interface {
	Create(ctx context.Context, contact Contact) (Contact, error)
	GetByID(ctx context.Context, id uuid.UUID) (Contact, error)
	List(ctx context.Context, filter ContactFilter) ([]Contact, int, error)
	Update(ctx context.Context, contact Contact) (Contact, error)
	Stats(ctx context.Context) (ContactStats, error)
}

// ContactCategory groups submissions by topic.
type ContactCategory string

const (
	ContactCategoryGeneral   ContactCategory = "general"
	ContactCategoryTechnical ContactCategory = "technical"
	ContactCategoryBilling   ContactCategory = "billing"
	ContactCategoryCourse    ContactCategory = "course"
	ContactCategoryFeedback  ContactCategory = "feedback"
	ContactCategoryOther     ContactCategory = "other"
)

// ContactStatus tracks handling progress of a submission.
type ContactStatus string

const (
	ContactStatusNew        ContactStatus = "new"
	ContactStatusInProgress ContactStatus = "in-progress"
	ContactStatusResolved   ContactStatus = "resolved"
	ContactStatusSpam       ContactStatus = "spam"
)

// ContactPriority orders submissions for triage.
type ContactPriority string

const (
	ContactPriorityLow    ContactPriority = "low"
	ContactPriorityMedium ContactPriority = "medium"
	ContactPriorityHigh   ContactPriority = "high"
	ContactPriorityUrgent ContactPriority = "urgent"
)

// Contact is a stored contact form submission.
type Contact struct {
	ID          uuid.UUID
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	Category    ContactCategory
	Status      ContactStatus
	Priority    ContactPriority
	Responded   bool
	Response    *ContactResponse
	SubmittedBy *uuid.UUID
	IPAddress   string
	UserAgent   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContactResponse is an administrator's reply to a submission.
type ContactResponse struct {
	Message     string
	RespondedBy uuid.UUID
	RespondedAt time.Time
}

// ContactSubmission is the public input of the contact form.
type ContactSubmission struct {
	Name        string
	Email       string
	Phone       string
	Subject     string
	Message     string
	Category    ContactCategory
	SubmittedBy *uuid.UUID
	IPAddress   string
	UserAgent   string
}

// ContactFilter selects a page of submissions.
type ContactFilter struct {
	Status   ContactStatus
	Category ContactCategory
	Page     int
	Limit    int
}

// Offset returns the number of rows to skip for the filter's page.
func (f ContactFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ContactUpdate lists the fields an administrator may change.
type ContactUpdate struct {
	Status          ContactStatus
	Priority        ContactPriority
	ResponseMessage string
}

// ContactStats aggregates submissions.
type ContactStats struct {
	Total      int
	ByStatus   map[ContactStatus]int
	ByCategory map[ContactCategory]int
}

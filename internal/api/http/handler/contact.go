package handler

import (
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
	"github.com/dtroode/boogle-server/internal/service"
)

// ContactService defines contact form operations.
type ContactService interface {
	Submit(ctx context.Context, sub model.ContactSubmission) (model.Contact, error)
	List(ctx context.Context, filter model.ContactFilter) (service.ContactPage, error)
	Get(ctx context.Context, id uuid.UUID) (model.Contact, error)
	Update(ctx context.Context, id uuid.UUID, upd model.ContactUpdate, responder uuid.UUID) (model.Contact, error)
	Stats(ctx context.Context) (model.ContactStats, error)
}

// Contact handles contact form endpoints.
type Contact struct {
	contactService ContactService
	contextManager model.ContextManager
	responder      *Responder
	validator      *Validator
	trustProxy     bool
	logger         *logger.Logger
}

// NewContact creates a new Contact handler. trustProxy enables reading the
// client address from proxy headers.
func NewContact(
	contactService ContactService,
	contextManager model.ContextManager,
	responder *Responder,
	validator *Validator,
	trustProxy bool,
	logger *logger.Logger,
) *Contact {
	return &Contact{
		contactService: contactService,
		contextManager: contextManager,
		responder:      responder,
		validator:      validator,
		trustProxy:     trustProxy,
		logger:         logger,
	}
}

type submitResponse struct {
	ContactID   uuid.UUID `json:"contactId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type pagination struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

type contactListResponse struct {
	Contacts   []contactView `json:"contacts"`
	Pagination pagination    `json:"pagination"`
}

type contactEnvelope struct {
	Contact contactView `json:"contact"`
}

type statsView struct {
	Total      int                           `json:"total"`
	ByStatus   map[model.ContactStatus]int   `json:"byStatus"`
	ByCategory map[model.ContactCategory]int `json:"byCategory"`
}

type statsEnvelope struct {
	Stats statsView `json:"stats"`
}

// Submit stores a contact form submission. Authentication is optional.
func (h *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	sub := model.ContactSubmission{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		Category:  req.Category,
		IPAddress: ClientIP(r, h.trustProxy),
		UserAgent: r.UserAgent(),
	}
	if user, ok := h.contextManager.GetUser(r.Context()); ok {
		sub.SubmittedBy = &user.ID
	}

	contact, err := h.contactService.Submit(r.Context(), sub)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusCreated, "Thank you for contacting us. We will get back to you soon.", submitResponse{
		ContactID:   contact.ID,
		SubmittedAt: contact.CreatedAt,
	})
}

// List returns a page of submissions filtered by status and category.
func (h *Contact) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ContactFilter{
		Status:   model.ContactStatus(q.Get("status")),
		Category: model.ContactCategory(q.Get("category")),
		Page:     atoiOrZero(q.Get("page")),
		Limit:    atoiOrZero(q.Get("limit")),
	}

	page, err := h.contactService.List(r.Context(), filter)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	views := make([]contactView, 0, len(page.Items))
	for _, c := range page.Items {
		views = append(views, newContactView(c))
	}

	pages := 0
	if page.Limit > 0 {
		pages = int(math.Ceil(float64(page.Total) / float64(page.Limit)))
	}

	h.responder.Success(w, http.StatusOK, "", contactListResponse{
		Contacts: views,
		Pagination: pagination{
			Total:       page.Total,
			Pages:       pages,
			CurrentPage: page.Page,
			Limit:       page.Limit,
		},
	})
}

// Get returns a single submission.
func (h *Contact) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.responder)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(r.Context(), id)
	if errors.Is(err, model.ErrNotFound) {
		h.responder.Fail(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusOK, "", contactEnvelope{Contact: newContactView(contact)})
}

// Update changes status or priority and records an administrator response.
func (h *Contact) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.responder)
	if !ok {
		return
	}
	caller, ok := h.contextManager.GetUser(r.Context())
	if !ok {
		h.responder.Error(w, r, model.ErrNoToken)
		return
	}

	var req updateContactRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	upd := model.ContactUpdate{
		Status:   req.Status,
		Priority: req.Priority,
	}
	if req.Response != nil {
		upd.ResponseMessage = req.Response.Message
	}

	contact, err := h.contactService.Update(r.Context(), id, upd, caller.ID)
	if errors.Is(err, model.ErrNotFound) {
		h.responder.Fail(w, http.StatusNotFound, "Contact not found")
		return
	}
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusOK, "Contact updated successfully", contactEnvelope{Contact: newContactView(contact)})
}

// Stats returns submission counts by status and category.
func (h *Contact) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusOK, "", statsEnvelope{Stats: statsView{
		Total:      stats.Total,
		ByStatus:   stats.ByStatus,
		ByCategory: stats.ByCategory,
	}})
}

// ClientIP returns the originating client address. X-Forwarded-For and
// X-Real-IP are client controlled and are read only when trustProxy is set,
// i.e. when the server is reachable through a proxy that overwrites them.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			return strings.TrimSpace(first)
		}
		if xr := r.Header.Get("X-Real-IP"); xr != "" {
			return strings.TrimSpace(xr)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

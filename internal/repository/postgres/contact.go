package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/boogle-server/internal/model"
)

var _ model.ContactStore = (*ContactRepository)(nil)

const contactColumns = `id, name, email, phone, subject, message, category, status, priority, responded,
	response_message, responded_by, responded_at, submitted_by, ip_address, user_agent, created_at, updated_at`

type ContactRepository struct {
	db querier
}

func NewContactRepository(db querier) *ContactRepository {
	return &ContactRepository{
		db: db,
	}
}

func (r *ContactRepository) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}

	query := `INSERT INTO contacts (id, name, email, phone, subject, message, category, status, priority,
			  submitted_by, ip_address, user_agent)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING ` + contactColumns

	saved, err := scanContact(r.db.QueryRow(ctx, query,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Subject, contact.Message,
		string(contact.Category), string(contact.Status), string(contact.Priority),
		contact.SubmittedBy, contact.IPAddress, contact.UserAgent,
	))
	if err != nil {
		return model.Contact{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return saved, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	contact, err := scanContact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contact{}, model.ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("failed to get contact by id: %w", err)
	}

	return contact, nil
}

func (r *ContactRepository) List(ctx context.Context, filter model.ContactFilter) ([]model.Contact, int, error) {
	where, args := contactWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM contacts%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		contactColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]model.Contact, 0, filter.Limit)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, total, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact model.Contact) (model.Contact, error) {
	var (
		message     *string
		respondedBy *uuid.UUID
		respondedAt *time.Time
	)
	if contact.Response != nil {
		message = &contact.Response.Message
		respondedBy = &contact.Response.RespondedBy
		respondedAt = &contact.Response.RespondedAt
	}

	query := `UPDATE contacts SET status = $2, priority = $3, responded = $4, response_message = $5,
			  responded_by = $6, responded_at = $7, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + contactColumns

	saved, err := scanContact(r.db.QueryRow(ctx, query,
		contact.ID, string(contact.Status), string(contact.Priority), contact.Responded,
		message, respondedBy, respondedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Contact{}, model.ErrNotFound
		}
		return model.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}

	return saved, nil
}

func (r *ContactRepository) Stats(ctx context.Context) (model.ContactStats, error) {
	stats := model.ContactStats{
		ByStatus:   make(map[model.ContactStatus]int),
		ByCategory: make(map[model.ContactCategory]int),
	}

	err := r.groupCount(ctx, "status", func(key string, n int) {
		stats.ByStatus[model.ContactStatus(key)] = n
		stats.Total += n
	})
	if err != nil {
		return model.ContactStats{}, err
	}

	err = r.groupCount(ctx, "category", func(key string, n int) {
		stats.ByCategory[model.ContactCategory(key)] = n
	})
	if err != nil {
		return model.ContactStats{}, err
	}

	return stats, nil
}

// groupCount runs a COUNT grouped by column, which must be a trusted identifier.
func (r *ContactRepository) groupCount(ctx context.Context, column string, fn func(key string, n int)) error {
	rows, err := r.db.Query(ctx, `SELECT `+column+`, COUNT(*) FROM contacts GROUP BY `+column)
	if err != nil {
		return fmt.Errorf("failed to count contacts by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan contact count: %w", err)
		}
		fn(key, n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate contact counts: %w", err)
	}

	return nil
}

func contactWhere(filter model.ContactFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanContact(row pgx.Row) (model.Contact, error) {
	var (
		c                          model.Contact
		category, status, priority string
		message                    *string
		respondedBy                *uuid.UUID
		respondedAt                *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &category, &status, &priority,
		&c.Responded, &message, &respondedBy, &respondedAt, &c.SubmittedBy, &c.IPAddress, &c.UserAgent,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return model.Contact{}, err
	}

	c.Category = model.ContactCategory(category)
	c.Status = model.ContactStatus(status)
	c.Priority = model.ContactPriority(priority)
	if message != nil {
		c.Response = &model.ContactResponse{Message: *message}
		if respondedBy != nil {
			c.Response.RespondedBy = *respondedBy
		}
		if respondedAt != nil {
			c.Response.RespondedAt = *respondedAt
		}
	}

	return c, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/cimillas/ticketline/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

const eventColumns = `event_id, name, description, image_url, performer, venue, city, date, price, category, remaining_tickets`

func (r *EventRepository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events ORDER BY event_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1`

	e, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// DecrementRemainingTickets atomically reserves quantity tickets. The WHERE
// clause is the precondition: the row is only updated when enough tickets
// remain, so concurrent purchases serialize on the row without any
// application-level lock and the counter can never go negative.
func (r *EventRepository) DecrementRemainingTickets(ctx context.Context, eventID string, quantity int) error {
	const stmt = `
UPDATE events
SET remaining_tickets = remaining_tickets - $2
WHERE event_id = $1 AND remaining_tickets >= $2`

	tag, err := r.pool.Exec(ctx, stmt, eventID, quantity)
	if err != nil {
		return fmt.Errorf("decrement remaining tickets: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the event is missing or the precondition failed.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE event_id = $1)`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return domain.ErrEventNotFound
	}
	return domain.ErrInsufficientTickets
}

// UpsertEvent inserts or replaces a catalog entry. Used by seeding only.
func (r *EventRepository) UpsertEvent(ctx context.Context, event domain.Event) error {
	const stmt = `
INSERT INTO events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (event_id) DO UPDATE SET
	name = EXCLUDED.name,
	description = EXCLUDED.description,
	image_url = EXCLUDED.image_url,
	performer = EXCLUDED.performer,
	venue = EXCLUDED.venue,
	city = EXCLUDED.city,
	date = EXCLUDED.date,
	price = EXCLUDED.price,
	category = EXCLUDED.category,
	remaining_tickets = EXCLUDED.remaining_tickets`

	_, err := r.pool.Exec(ctx, stmt,
		event.ID, event.Name, event.Description, event.ImageURL, event.Performer,
		event.Venue, event.City, event.Date, event.Price, event.Category, event.RemainingTickets,
	)
	if err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.ImageURL, &e.Performer,
		&e.Venue, &e.City, &e.Date, &e.Price, &e.Category, &e.RemainingTickets,
	)
	return e, err
}

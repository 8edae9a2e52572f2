package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

var ErrStepNotFound = fmt.Errorf("booking step %w", interfaces.ErrNotFound)

type BookingRepository struct {
	db    *pgxpool.Pool
	cache *infrastructure.Cache
}

var _ interfaces.BookingStepStore = (*BookingRepository)(nil)

func NewBookingRepository(db *pgxpool.Pool, cache *infrastructure.Cache) *BookingRepository {
	return &BookingRepository{db: db, cache: cache}
}

const bookingStepColumns = `id::text, step_order, prompt_text, input_type, expected_values,
	validation_type, validation_regex, retry_message, is_required, is_enabled`

// ListBookingSteps returns every step, enabled or not, by order.
func (r *BookingRepository) ListBookingSteps(ctx context.Context, businessID string) ([]entities.BookingStep, error) {
	var steps []entities.BookingStep
	if r.cache.GetJSON(stepsCacheKey(businessID), &steps) {
		return steps, nil
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY step_order",
		bookingStepColumns, tenantTable(businessID, "booking_steps")))
	if err != nil {
		return nil, fmt.Errorf("query booking steps: %w", err)
	}
	defer rows.Close()

	steps = []entities.BookingStep{}
	for rows.Next() {
		s, err := scanBookingStep(rows)
		if err != nil {
			return nil, err
		}
		s.BusinessID = businessID
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.cache.SetJSON(stepsCacheKey(businessID), steps)
	return steps, nil
}

func (r *BookingRepository) GetBookingStep(ctx context.Context, businessID, stepID string) (entities.BookingStep, error) {
	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE id=$1",
		bookingStepColumns, tenantTable(businessID, "booking_steps")), stepID)
	s, err := scanBookingStep(row)
	if err != nil {
		return entities.BookingStep{}, classify(err, ErrStepNotFound)
	}
	s.BusinessID = businessID
	return s, nil
}

func (r *BookingRepository) CreateBookingStep(ctx context.Context, businessID string, s *entities.BookingStep) error {
	s.ID = uuid.NewString()
	s.BusinessID = businessID
	if err := insertBookingStep(ctx, r.db, businessID, *s); err != nil {
		return err
	}
	r.cache.Delete(stepsCacheKey(businessID))
	return nil
}

func (r *BookingRepository) UpdateBookingStep(ctx context.Context, businessID string, s entities.BookingStep) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET step_order=$1, prompt_text=$2, input_type=$3, expected_values=$4,
			validation_type=$5, validation_regex=$6, retry_message=$7, is_required=$8, is_enabled=$9
		WHERE id=$10
	`, tenantTable(businessID, "booking_steps")),
		s.Order, s.PromptText, string(s.InputType), expectedValues(s), string(validationType(s)),
		s.ValidationRegex, s.RetryMessage, s.IsRequired, s.IsEnabled, s.ID)
	if err != nil {
		return classify(err, ErrStepNotFound)
	}
	if tag.RowsAffected() == 0 {
		return ErrStepNotFound
	}
	r.cache.Delete(stepsCacheKey(businessID))
	return nil
}

func (r *BookingRepository) DeleteBookingStep(ctx context.Context, businessID, stepID string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1",
		tenantTable(businessID, "booking_steps")), stepID)
	if err != nil {
		return classify(err, ErrStepNotFound)
	}
	if tag.RowsAffected() == 0 {
		return ErrStepNotFound
	}
	r.cache.Delete(stepsCacheKey(businessID))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingStep(row rowScanner) (entities.BookingStep, error) {
	var s entities.BookingStep
	var inputType, validation string
	err := row.Scan(&s.ID, &s.Order, &s.PromptText, &inputType, &s.ExpectedValues,
		&validation, &s.ValidationRegex, &s.RetryMessage, &s.IsRequired, &s.IsEnabled)
	if err != nil {
		return entities.BookingStep{}, err
	}
	s.InputType = entities.InputType(inputType)
	s.ValidationType = entities.ValidationType(validation)
	if s.ExpectedValues == nil {
		s.ExpectedValues = []string{}
	}
	return s, nil
}

func insertBookingStep(ctx context.Context, q querier, businessID string, s entities.BookingStep) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, step_order, prompt_text, input_type, expected_values,
			validation_type, validation_regex, retry_message, is_required, is_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, tenantTable(businessID, "booking_steps")),
		s.ID, s.Order, s.PromptText, string(s.InputType), expectedValues(s), string(validationType(s)),
		s.ValidationRegex, s.RetryMessage, s.IsRequired, s.IsEnabled)
	return classify(err, ErrStepNotFound)
}

func expectedValues(s entities.BookingStep) []string {
	if s.ExpectedValues == nil {
		return []string{}
	}
	return s.ExpectedValues
}

func validationType(s entities.BookingStep) entities.ValidationType {
	if s.ValidationType == "" {
		return entities.ValidationNone
	}
	return s.ValidationType
}

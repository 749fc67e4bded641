package repository

import (
	"context"
	"time"

	"tutorbook/internal/domain/availability"
	"tutorbook/internal/infra"
	"tutorbook/internal/infra/db"

	"github.com/google/uuid"
)

// AvailabilityRepository reads the weekly open-hours rules the external
// availability service maintains. This service never writes them.
type AvailabilityRepository struct{}

func NewAvailabilityRepository() *AvailabilityRepository {
	return &AvailabilityRepository{}
}

func (r *AvailabilityRepository) FindTemplate(ctx context.Context, q db.Querier, teacherID uuid.UUID) (*availability.Template, error) {
	query := `
		SELECT weekday, enabled, start_time, end_time
		FROM availability_rules
		WHERE teacher_id = $1
		ORDER BY weekday, start_time
	`
	rows, err := q.Query(ctx, query, teacherID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load availability rules", err)
	}
	defer rows.Close()

	var rules []availability.WeekdayRule
	for rows.Next() {
		var weekday int16
		var enabled bool
		var start, end string
		if err := rows.Scan(&weekday, &enabled, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan availability rule", err)
		}
		rules = append(rules, availability.WeekdayRule{
			Day:     time.Weekday(weekday),
			Enabled: enabled,
			Slots:   []availability.HourRange{{Start: start, End: end}},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate availability rules", err)
	}

	return availability.NewTemplate(rules), nil
}

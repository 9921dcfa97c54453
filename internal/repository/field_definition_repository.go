package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// FieldDefinitionRepository reads template field definitions. Reads are
// never cached; validation always sees the live definition set.
type FieldDefinitionRepository interface {
	GetTemplate(ctx context.Context, id int64) (*domain.Template, error)
	ListByTemplate(ctx context.Context, templateID int64) ([]domain.FieldDefinition, error)
}

type fieldDefinitionRepository struct {
	pool *pgxpool.Pool
}

// NewFieldDefinitionRepository instantiates repository.
func NewFieldDefinitionRepository(pool *pgxpool.Pool) FieldDefinitionRepository {
	return &fieldDefinitionRepository{pool: pool}
}

func (r *fieldDefinitionRepository) GetTemplate(ctx context.Context, id int64) (*domain.Template, error) {
	const query = `
        SELECT id, name, requires_approval, created_at, updated_at
        FROM templates WHERE id=$1`
	var template domain.Template
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.RequiresApproval,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *fieldDefinitionRepository) ListByTemplate(ctx context.Context, templateID int64) ([]domain.FieldDefinition, error) {
	const query = `
        SELECT id, template_id, name, field_type, options, is_required, sort_order
        FROM template_field_definitions WHERE template_id=$1 ORDER BY sort_order, id`
	rows, err := r.pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []domain.FieldDefinition
	for rows.Next() {
		var def domain.FieldDefinition
		if err := rows.Scan(
			&def.ID,
			&def.TemplateID,
			&def.Name,
			&def.Type,
			&def.Options,
			&def.IsRequired,
			&def.SortOrder,
		); err != nil {
			return nil, err
		}
		result = append(result, def)
	}
	return result, rows.Err()
}

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"crudd/internal/schema"
	"crudd/pkg/types"
)

// Create inserts a row built from validated column values and returns the
// stored row. created_at/updated_at/is_active are owned by the store.
func (s *Store) Create(ctx context.Context, res schema.Resource, values map[string]any) (map[string]any, error) {
	now := time.Now().UTC()
	row := make(map[string]any, len(values)+3)
	for k, v := range values {
		row[k] = v
	}
	row["created_at"] = now
	row["updated_at"] = now
	row["is_active"] = true

	cols := make([]string, 0, len(row))
	for k := range row {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	args := make([]any, 0, len(cols))
	marks := make([]string, 0, len(cols))
	for _, c := range cols {
		args = append(args, row[c])
		marks = append(marks, "?")
	}
	// Both supported dialects understand RETURNING; map-based creates do not
	// report the generated key otherwise.
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		res.Table(), strings.Join(cols, ", "), strings.Join(marks, ", "))
	var id int64
	if err := s.db.WithContext(ctx).Raw(q, args...).Scan(&id).Error; err != nil {
		return nil, s.translate(err)
	}
	return s.Get(ctx, res, id)
}

// Get returns the active row with the given id.
func (s *Store) Get(ctx context.Context, res schema.Resource, id int64) (map[string]any, error) {
	row := map[string]any{}
	err := s.db.WithContext(ctx).
		Table(res.Table()).
		Where("id = ? AND is_active = ?", id, true).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound(res.Name, id)
		}
		return nil, s.translate(err)
	}
	return s.normalize(res, row), nil
}

// List returns one page of active rows ordered by id, plus the total number
// of active rows.
func (s *Store) List(ctx context.Context, res schema.Resource, page types.Page) ([]map[string]any, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Table(res.Table()).
		Where("is_active = ?", true).
		Count(&total).Error; err != nil {
		return nil, 0, s.translate(err)
	}
	var rows []map[string]any
	err := s.db.WithContext(ctx).
		Table(res.Table()).
		Where("is_active = ?", true).
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, s.translate(err)
	}
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.normalize(res, row))
	}
	return out, total, nil
}

// Update applies validated column values to the active row with the given id
// and returns the stored row.
func (s *Store) Update(ctx context.Context, res schema.Resource, id int64, values map[string]any) (map[string]any, error) {
	updates := make(map[string]any, len(values)+1)
	for k, v := range values {
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()
	tx := s.db.WithContext(ctx).
		Table(res.Table()).
		Where("id = ? AND is_active = ?", id, true).
		Updates(updates)
	if tx.Error != nil {
		return nil, s.translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, ErrNotFound(res.Name, id)
	}
	return s.Get(ctx, res, id)
}

// Delete soft-deletes the active row with the given id. The row stays in the
// table with is_active=false and disappears from every read path.
func (s *Store) Delete(ctx context.Context, res schema.Resource, id int64) error {
	tx := s.db.WithContext(ctx).
		Table(res.Table()).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return s.translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound(res.Name, id)
	}
	return nil
}

// CountActive returns the number of active rows for status reporting.
func (s *Store) CountActive(ctx context.Context, res schema.Resource) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Table(res.Table()).
		Where("is_active = ?", true).
		Count(&total).Error
	if err != nil {
		return 0, s.translate(err)
	}
	return total, nil
}

// translate maps driver errors to the store's error types. gorm's
// TranslateError covers both dialects; the substring checks catch drivers
// that surface raw constraint messages.
func (s *Store) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict("duplicate value violates a unique constraint")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrConflict("referenced row does not exist")
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value") {
		return ErrConflict("duplicate value violates a unique constraint")
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key constraint") {
		return ErrConflict("referenced row does not exist")
	}
	if strings.Contains(msg, "CHECK constraint failed") || strings.Contains(msg, "violates check constraint") {
		return ErrConflict("value rejected by a check constraint")
	}
	return err
}

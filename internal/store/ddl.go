package store

import (
	"context"
	"fmt"
	"strings"

	"crudd/internal/schema"
)

// Migrate creates one table per resource, in dependency order so foreign
// keys always point at existing tables. Creation is idempotent; existing
// tables are left untouched (no ALTER on definition change).
func (s *Store) Migrate(ctx context.Context, resources []schema.Resource) error {
	ordered, err := schema.DependencyOrder(resources)
	if err != nil {
		return err
	}
	for _, res := range ordered {
		for _, stmt := range s.createStatements(res) {
			if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
				return fmt.Errorf("migrate %s: %w", res.Table(), err)
			}
		}
	}
	return nil
}

// createStatements renders the CREATE TABLE (and supporting index) DDL for
// one resource. Identifiers are validated lowercase identifiers, so plain
// interpolation is safe; enum values are the only quoted literals.
func (s *Store) createStatements(res schema.Resource) []string {
	table := res.Table()
	var cols []string
	if s.dialect == DialectPostgres {
		cols = append(cols, "id BIGSERIAL PRIMARY KEY")
	} else {
		cols = append(cols, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	}
	cols = append(cols,
		"created_at "+s.timeType()+" NOT NULL",
		"updated_at "+s.timeType()+" NOT NULL",
		"is_active BOOLEAN NOT NULL DEFAULT TRUE",
	)
	for _, f := range res.Fields {
		cols = append(cols, s.columnDef(f))
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(cols, ", "))
	// Every read path filters on is_active.
	index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_is_active ON %s (is_active)", table, table)
	return []string{create, index}
}

func (s *Store) columnDef(f schema.Field) string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(' ')
	b.WriteString(s.columnType(f))
	if f.Type == schema.TypeEnum {
		quoted := make([]string, 0, len(f.Values))
		for _, v := range f.Values {
			quoted = append(quoted, "'"+strings.ReplaceAll(v, "'", "''")+"'")
		}
		fmt.Fprintf(&b, " CHECK (%s IN (%s))", f.Name, strings.Join(quoted, ", "))
	}
	if f.Required {
		b.WriteString(" NOT NULL")
	}
	if f.Unique {
		b.WriteString(" UNIQUE")
	}
	if f.References != "" {
		fmt.Fprintf(&b, " REFERENCES %ss(id)", strings.ToLower(f.References))
	}
	return b.String()
}

func (s *Store) columnType(f schema.Field) string {
	switch f.Type {
	case schema.TypeString:
		if f.MaxLen > 0 {
			return fmt.Sprintf("VARCHAR(%d)", f.MaxLen)
		}
		return "TEXT"
	case schema.TypeText, schema.TypeEnum:
		return "TEXT"
	case schema.TypeInt:
		if s.dialect == DialectPostgres {
			return "BIGINT"
		}
		return "INTEGER"
	case schema.TypeFloat:
		if s.dialect == DialectPostgres {
			return "DOUBLE PRECISION"
		}
		return "REAL"
	case schema.TypeBool:
		return "BOOLEAN"
	case schema.TypeTime:
		return s.timeType()
	default:
		return "TEXT"
	}
}

func (s *Store) timeType() string {
	if s.dialect == DialectPostgres {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}

package types

// Resource describes one generated API resource as exposed to clients.
type Resource struct {
	// Resource name as declared in its definition file.
	// example: product
	Name string `json:"name" example:"product"`
	// Route prefix all generated endpoints for this resource live under.
	// example: /product
	Route string `json:"route" example:"/product"`
	// Database table backing this resource.
	// example: products
	Table string `json:"table" example:"products"`
	// Optional human description from the definition file.
	// example: Products in the catalog
	Description string `json:"description,omitempty" example:"Products in the catalog"`
	// Declared fields, excluding the implicit id/created_at/updated_at/is_active columns.
	Fields []FieldSpec `json:"fields"`
}

// FieldSpec describes one declared field of a resource.
type FieldSpec struct {
	// Field name.
	// example: external_id
	Name string `json:"name" example:"external_id"`
	// Field type: string, text, int, float, bool, time or enum.
	// example: int
	Type string `json:"type" example:"int"`
	// Whether a create must supply this field (unless a default exists).
	// example: true
	Required bool `json:"required,omitempty" example:"true"`
	// Whether values must be unique across rows.
	Unique bool `json:"unique,omitempty"`
	// Maximum length for string/text fields (0 = unbounded).
	// example: 100
	MaxLen int `json:"max_len,omitempty" example:"100"`
	// Allowed values for enum fields.
	Values []string `json:"values,omitempty"`
	// Default literal applied when a create omits the field.
	Default any `json:"default,omitempty"`
	// Name of the resource this field references (stored as an integer
	// foreign key to that resource's id).
	// example: product
	References string `json:"references,omitempty" example:"product"`
}

// Page bounds a list query.
type Page struct {
	Skip  int
	Limit int
}

package models

// Category is a row of the categories table. (owner_id, name, type) is unique.
type Category struct {
	CategoryID string `db:"category_id"`
	OwnerID    string `db:"owner_id"`
	Name       string `db:"name"`
	Type       string `db:"category_type"`
	Color      string `db:"color"`
	Icon       string `db:"icon"`
	IsDefault  bool   `db:"is_default"`
	AuditFields
}

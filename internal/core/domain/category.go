package domain

// CategoryType restricts which transactions may reference a category.
type CategoryType string

const (
	CategoryIncome  CategoryType = "INCOME"
	CategoryExpense CategoryType = "EXPENSE"
)

// Valid reports whether t is a known category type.
func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

const (
	// UncategorizedName labels expenses with no resolvable category in reports.
	UncategorizedName = "Uncategorized"
	// DefaultCategoryColor is used for categories without a configured color.
	DefaultCategoryColor = "#64748b"
)

// Category groups transactions of a single type. Default categories are
// system-seeded and can be neither modified nor deleted.
type Category struct {
	CategoryID string       `json:"categoryID"`
	OwnerID    string       `json:"ownerID"`
	Name       string       `json:"name"`
	Type       CategoryType `json:"type"`
	Color      string       `json:"color"`
	Icon       string       `json:"icon"`
	IsDefault  bool         `json:"isDefault"`
	AuditFields
}

// DisplayColor returns the configured color or the default one.
func (c Category) DisplayColor() string {
	if c.Color == "" {
		return DefaultCategoryColor
	}
	return c.Color
}

package domain

// CategoryStatus mirrors the activation flag the API keeps on categories.
type CategoryStatus string

const (
	CategoryActive   CategoryStatus = "active"
	CategoryInactive CategoryStatus = "inactive"
)

// Category is a catalog grouping, possibly nested under a parent.
type Category struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Image       *Image         `json:"image,omitempty"`
	Parent      string         `json:"parent,omitempty"`
	Status      CategoryStatus `json:"status"`
	Featured    bool           `json:"featured,omitempty"`
	Products    int            `json:"products,omitempty"`
	CreatedAt   string         `json:"createdAt,omitempty"`
	UpdatedAt   string         `json:"updatedAt,omitempty"`
}

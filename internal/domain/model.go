package domain

import "time"

// BaseModel is the common base struct for all domain models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
// IDs are UUID strings assigned by the repository on create.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderedModel is embedded by every entity that appears in a reorderable
// collection. Order is stored in the sort_order column since ORDER is a
// reserved word in SQL.
type OrderedModel struct {
	BaseModel
	Order int `gorm:"column:sort_order;not null;default:0;index" json:"order"`
}

// GetID returns the entity ID.
func (m OrderedModel) GetID() string { return m.ID }

// GetOrder returns the display position.
func (m OrderedModel) GetOrder() int { return m.Order }

// SetOrder moves the entity to position order.
func (m *OrderedModel) SetOrder(order int) { m.Order = order }

// Base exposes the embedded OrderedModel for generic code that needs to
// assign identity and position.
func (m *OrderedModel) Base() *OrderedModel { return m }

// Ordered is implemented by every entity value that carries an ID and a
// display position.
type Ordered interface {
	GetID() string
	GetOrder() int
}

// OrderedPtr constrains *T for generic repositories over ordered entities.
type OrderedPtr[T any] interface {
	*T
	Ordered
	Base() *OrderedModel
}

// PageRequest holds pagination, sorting, and filtering parameters.
type PageRequest struct {
	Page     int
	PageSize int
	Sort     string
	Search   string
	Filter   map[string]string
	From     *time.Time
	To       *time.Time

	// VisibleOnly restricts results to entities the public may see.
	VisibleOnly bool
}

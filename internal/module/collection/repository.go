package collection

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// repository implements domain.CollectionRepository using GORM.
type repository[T any, P domain.OrderedPtr[T]] struct {
	db  *gorm.DB
	def Definition[T]
}

// NewRepository creates a CollectionRepository for the entity type T.
func NewRepository[T any, P domain.OrderedPtr[T]](db *gorm.DB, def Definition[T]) domain.CollectionRepository[T] {
	return &repository[T, P]{db: db, def: def}
}

// Create assigns a new ID and places the entity at the end of the collection.
func (r *repository[T, P]) Create(ctx context.Context, entity *T) error {
	base := P(entity).Base()
	base.ID = uuid.NewString()

	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var maxOrder sql.NullInt64
		if err := tx.Model(new(T)).Select("MAX(sort_order)").Row().Scan(&maxOrder); err != nil {
			return pkg.MapDBError(err)
		}
		base.Order = 0
		if maxOrder.Valid {
			base.Order = int(maxOrder.Int64) + 1
		}
		return pkg.MapDBError(tx.Create(entity).Error)
	})
}

// GetByID retrieves an entity by its primary key.
func (r *repository[T, P]) GetByID(ctx context.Context, id string) (*T, error) {
	entity := new(T)
	if err := r.db.WithContext(ctx).First(entity, "id = ?", id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return entity, nil
}

// List returns a filtered page of the collection in display order.
func (r *repository[T, P]) List(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[T], error) {
	base := r.db.WithContext(ctx).Model(new(T)).Scopes(
		pkg.Filter(req, r.def.FilterFields),
		pkg.Search(req, r.def.SearchColumns),
		pkg.DateRange(req, "created_at"),
	)
	if req.VisibleOnly {
		if r.def.PublicColumn == "" {
			return pkg.NewPageResult[T](nil, 0, req), nil
		}
		base = base.Where(r.def.PublicColumn+" = ?", true)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var items []T
	if err := base.Scopes(
		pkg.Sort(req, r.def.sortFields()),
		pkg.Paginate(req),
	).Find(&items).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	return pkg.NewPageResult(items, total, req), nil
}

// Update writes every payload column of entity. ID, order, creation time and
// the definition's read-only columns are left as stored.
func (r *repository[T, P]) Update(ctx context.Context, entity *T) error {
	omit := append([]string{"id", "sort_order", "created_at"}, r.def.ReadOnly...)
	result := r.db.WithContext(ctx).Model(entity).Select("*").Omit(omit...).Updates(entity)
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetFlag sets one boolean column chosen from the definition's flags.
func (r *repository[T, P]) SetFlag(ctx context.Context, id, flag string, value bool) error {
	column, ok := r.def.Flags[flag]
	if !ok {
		return domain.NewValidationError(map[string]string{"flag": "oneof=" + r.def.flagNames()})
	}
	result := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an entity by ID.
func (r *repository[T, P]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Reorder rewrites sort_order to 0..n-1 following ids. Only sort_order is
// written; updated_at and every payload column stay untouched.
func (r *repository[T, P]) Reorder(ctx context.Context, ids []string) error {
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(new(T)).Pluck("id", &existing).Error; err != nil {
			return pkg.MapDBError(err)
		}
		if !isPermutation(ids, existing) {
			return domain.NewValidationError(map[string]string{
				"orderedIds": "must list every " + r.def.Singular + " ID exactly once",
			})
		}
		for i, id := range ids {
			err := tx.Model(new(T)).Where("id = ?", id).UpdateColumn("sort_order", i).Error
			if err != nil {
				return pkg.MapDBError(err)
			}
		}
		return nil
	})
}

// isPermutation reports whether ids holds exactly the elements of existing.
func isPermutation(ids, existing []string) bool {
	if len(ids) != len(existing) {
		return false
	}
	want := make(map[string]bool, len(existing))
	for _, id := range existing {
		want[id] = true
	}
	for _, id := range ids {
		if !want[id] {
			return false
		}
		delete(want, id)
	}
	return len(want) == 0
}

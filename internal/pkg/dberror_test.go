package pkg

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/simp-lee/folio/internal/domain"
)

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"record not found", gorm.ErrRecordNotFound, domain.IsNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domain.IsNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domain.IsAlreadyExists},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: blog_posts.slug (2067)"), domain.IsAlreadyExists},
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_accounts_email"`), domain.IsAlreadyExists},
		{"other", errors.New("disk I/O error"), domain.IsInternal},
		{"app error passes through", domain.NewValidationError(map[string]string{"orderedIds": "permutation"}), domain.IsValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapDBError(tt.err); !tt.check(got) {
				t.Errorf("MapDBError(%v) = %v", tt.err, got)
			}
		})
	}

	if MapDBError(nil) != nil {
		t.Error("nil must stay nil")
	}
}

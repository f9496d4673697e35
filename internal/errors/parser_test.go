package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Nil", err: nil, want: false},
		{name: "Translated gorm error", err: gorm.ErrDuplicatedKey, want: true},
		{name: "Wrapped gorm error", err: fmt.Errorf("create store: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "Postgres text", err: errors.New(`ERROR: duplicate key value violates unique constraint "idx_stores_name" (SQLSTATE 23505)`), want: true},
		{name: "SQLite text", err: errors.New("UNIQUE constraint failed: stores.name"), want: true},
		{name: "Not found", err: gorm.ErrRecordNotFound, want: false},
		{name: "Other", err: errors.New("disk I/O error"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(gorm.ErrRecordNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(errors.New("boom")))
}

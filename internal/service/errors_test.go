package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"Duplicated key", gorm.ErrDuplicatedKey, KindConstraint},
		{"Wrapped foreign key violation", fmt.Errorf("insert card: %w", gorm.ErrForeignKeyViolated), KindConstraint},
		{"SQLite unique constraint", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, KindConstraint},
		{"PostgreSQL unique violation", &pgconn.PgError{Code: "23505"}, KindConstraint},
		{"PostgreSQL not null violation", &pgconn.PgError{Code: "23502"}, KindConstraint},
		{"PostgreSQL connection failure", &pgconn.PgError{Code: "08006"}, KindConnection},
		{"SQLite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, KindConnection},
		{"Anything else", errors.New("unable to open database file"), KindConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestRegistrationError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&RegistrationError{Kind: KindConstraint, Message: "Error while adding: boom", Err: cause})

	assert.True(t, errors.Is(err, ErrConstraint))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrConnection))
	assert.Equal(t, "Error while adding: boom", err.Error())
	assert.Equal(t, "constraint", KindConstraint.String())
}

package repository

import (
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	apperrors "quill/internal/errors"
)

func TestMapDuplicateError(t *testing.T) {
	plainErr := errors.New("connection reset")
	fkErr := &gomysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "nil passes through",
			err:  nil,
			want: nil,
		},
		{
			name: "username key violation",
			err:  &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.idx_users_username'"},
			want: apperrors.ErrUsernameTaken,
		},
		{
			name: "email key violation",
			err:  &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'users.idx_users_email'"},
			want: apperrors.ErrEmailTaken,
		},
		{
			name: "other mysql error untouched",
			err:  fkErr,
			want: fkErr,
		},
		{
			name: "non-mysql error untouched",
			err:  plainErr,
			want: plainErr,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mapDuplicateError(tt.err))
		})
	}
}

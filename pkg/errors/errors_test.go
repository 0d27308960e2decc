package errors

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestFromDBErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"no rows", sql.ErrNoRows, ErrNotFound.Code},
		{"deadline", context.DeadlineExceeded, ErrTimeout.Code},
		{"conn done", sql.ErrConnDone, ErrNotConnected.Code},
		{"unique violation", &pq.Error{Code: "23505"}, ErrDuplicateKey.Code},
		{"fk violation", &pq.Error{Code: "23503"}, ErrConstraint.Code},
		{"conn failure", &pq.Error{Code: "08006"}, ErrNotConnected.Code},
		{"statement timeout", &pq.Error{Code: "57014"}, ErrTimeout.Code},
		{"anything else", fmt.Errorf("boom"), ErrQueryFailed.Code},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromDBError(tc.err, "op failed")
			assert.Equal(t, tc.want, got.Code)
			assert.Equal(t, "op failed", got.Message)
		})
	}
}

func TestFromDBErrorWrappedChain(t *testing.T) {
	wrapped := fmt.Errorf("create student: %w", &pq.Error{Code: "23505"})
	got := FromDBError(wrapped, "create failed")
	assert.Equal(t, ErrDuplicateKey.Code, got.Code)
	assert.True(t, IsKind(got, ErrDuplicateKey))
}

func TestFromDBErrorPassthrough(t *testing.T) {
	orig := Clone(ErrDuplicateKey, "username taken")
	got := FromDBError(orig, "ignored")
	assert.Equal(t, orig, got)
}

func TestFromErrorNormalises(t *testing.T) {
	assert.Nil(t, FromError(nil))
	e := FromError(fmt.Errorf("plain"))
	assert.Equal(t, ErrInternal.Code, e.Code)
}

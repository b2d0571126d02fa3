package database_test

import (
	"fmt"
	"testing"

	"github.com/jrsteele09/kitshop-gateway/internal/database"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505"}

	require.True(t, database.IsUniqueViolation(dup))
	require.True(t, database.IsUniqueViolation(fmt.Errorf("insert user: %w", dup)))
	require.False(t, database.IsUniqueViolation(&pq.Error{Code: "23503"}))
	require.False(t, database.IsUniqueViolation(fmt.Errorf("boom")))
	require.False(t, database.IsUniqueViolation(nil))
}

package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDSNForcesParseTime(t *testing.T) {
	dsn, err := normalizeDSN("app:secret@tcp(db:3306)/app")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
}

func TestNormalizeDSNKeepsExistingParameters(t *testing.T) {
	dsn, err := normalizeDSN("app:secret@tcp(db:3306)/app?parseTime=true&charset=utf8mb4")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestNormalizeDSNRejectsGarbage(t *testing.T) {
	_, err := normalizeDSN("missing-the-database-slash")
	assert.Error(t, err)
}

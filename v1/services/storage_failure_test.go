package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/originate-market/api-server-go/v1/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB wires GORM over a sqlmock connection so store failures can be
// injected deterministically
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestStorageFailureSurfacesAsStorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewAddressService(db)

	mock.ExpectQuery(`SELECT \* FROM "addresses"`).
		WillReturnError(errors.New("connection refused"))

	_, err := service.ListAddresses(models.Actor{UserID: "user_1", Role: models.RoleConsumer})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrStorageFailure)
	assert.Equal(t, http.StatusServiceUnavailable, models.HTTPStatus(err))

	// The original cause stays inspectable through the wrapper
	var storageErr *models.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Contains(t, storageErr.Err.Error(), "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}

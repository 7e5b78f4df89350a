package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestBaseModel_BeforeCreate(t *testing.T) {
	t.Run("BeforeCreate_SetsTimestamps", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
		if err != nil {
			t.Skipf("Skipping test: could not connect to test database: %v", err)
			return
		}

		type TestModel struct {
			ID string `gorm:"primarykey"`
			BaseModel
			Name string
		}

		db.AutoMigrate(&TestModel{})
		defer db.Migrator().DropTable(&TestModel{})

		model := TestModel{
			ID:   "test-create-123",
			Name: "Test",
		}

		err = db.Create(&model).Error
		assert.NoError(t, err)

		assert.False(t, model.CreatedAt.IsZero())
		assert.False(t, model.UpdatedAt.IsZero())
		assert.WithinDuration(t, time.Now(), model.CreatedAt, 5*time.Second)
		assert.WithinDuration(t, time.Now(), model.UpdatedAt, 5*time.Second)
	})
}

func TestBaseModel_BeforeUpdate(t *testing.T) {
	t.Run("BeforeUpdate_UpdatesTimestamp", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
		if err != nil {
			t.Skipf("Skipping test: could not connect to test database: %v", err)
			return
		}

		type TestModel struct {
			ID string `gorm:"primarykey"`
			BaseModel
			Name string
		}

		db.AutoMigrate(&TestModel{})
		defer db.Migrator().DropTable(&TestModel{})

		model := TestModel{
			ID:   "test-update-456",
			Name: "Before",
		}
		err = db.Create(&model).Error
		assert.NoError(t, err)

		created := model.UpdatedAt
		time.Sleep(10 * time.Millisecond)

		model.Name = "After"
		err = db.Save(&model).Error
		assert.NoError(t, err)

		assert.True(t, model.UpdatedAt.After(created) || model.UpdatedAt.Equal(created))
		assert.WithinDuration(t, time.Now(), model.UpdatedAt, 5*time.Second)
	})
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValue is the row model for the MySQL-backed store.
type KeyValue struct {
	Key   string `gorm:"column:k;primaryKey;size:255"`
	Value string `gorm:"column:v;type:longtext"`
}

func (KeyValue) TableName() string { return "key_values" }

// MySQLStorage backs the key-value contract with a MySQL table via GORM.
type MySQLStorage struct {
	db *gorm.DB
}

func NewMySQLStorage(db *gorm.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

// Migrate creates the key_values table when missing. Called once at startup,
// not from tests.
func (s *MySQLStorage) Migrate() error {
	if err := s.db.AutoMigrate(&KeyValue{}); err != nil {
		return fmt.Errorf("migrate key_values table: %w", err)
	}
	return nil
}

func (s *MySQLStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var row KeyValue
	err := s.db.WithContext(ctx).Where("k = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("mysql get %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (s *MySQLStorage) Set(ctx context.Context, key, value string) error {
	row := KeyValue{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "k"}},
			DoUpdates: clause.AssignmentColumns([]string{"v"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("mysql set %s: %w", key, err)
	}
	return nil
}

func (s *MySQLStorage) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("k = ?", key).Delete(&KeyValue{}).Error; err != nil {
		return fmt.Errorf("mysql del %s: %w", key, err)
	}
	return nil
}

func (s *MySQLStorage) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := s.db.WithContext(ctx).
		Model(&KeyValue{}).
		Where("k LIKE ?", prefix+"%").
		Pluck("k", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("mysql keys %s*: %w", prefix, err)
	}
	return keys, nil
}

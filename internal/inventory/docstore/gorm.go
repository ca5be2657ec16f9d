package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// documentRecord is one document row. Fields holds the JSON body.
type documentRecord struct {
	Collection string    `gorm:"primaryKey;size:128"`
	Key        string    `gorm:"primaryKey;size:512"`
	Fields     string    `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (documentRecord) TableName() string {
	return "documents"
}

// GormStore implements the document store on top of a Postgres table
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&documentRecord{})
}

func (s *GormStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	var records []documentRecord
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("key").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(records))
	for _, record := range records {
		fields, err := decodeFields([]byte(record.Fields))
		if err != nil {
			return nil, err
		}
		docs = append(docs, domain.Document{Key: record.Key, Fields: fields})
	}
	return docs, nil
}

func (s *GormStore) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	return s.get(s.db.WithContext(ctx), collection, key)
}

func (s *GormStore) get(tx *gorm.DB, collection, key string) (domain.Fields, error) {
	var record documentRecord
	err := tx.Where("collection = ? AND key = ?", collection, key).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return decodeFields([]byte(record.Fields))
}

func (s *GormStore) Set(ctx context.Context, collection, key string, fields domain.Fields, merge bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		body := fields
		if merge {
			existing, err := s.get(tx.Clauses(clause.Locking{Strength: "UPDATE"}), collection, key)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			body = existing.Merge(fields)
		}
		if body == nil {
			body = domain.Fields{}
		}

		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}

		record := documentRecord{
			Collection: collection,
			Key:        key,
			Fields:     buf.String(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
		}).Create(&record).Error
	})
}

func (s *GormStore) Delete(ctx context.Context, collection, key string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&documentRecord{}).Error
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

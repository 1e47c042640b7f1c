package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

// MealModel строка таблицы meals
type MealModel struct {
	ID         int64            `gorm:"primaryKey;autoIncrement"`
	UserID     int64            `gorm:"not null;index:idx_meals_user_date"`
	Date       datatypes.Date   `gorm:"not null;index:idx_meals_user_date"`
	MealTime   string           `gorm:"not null"`
	Protein    int              `gorm:"not null;default:0"`
	Vegetables int              `gorm:"not null;default:0"`
	Fats       int              `gorm:"not null;default:0"`
	Fruits     int              `gorm:"not null;default:0"`
	Dairy      int              `gorm:"not null;default:0"`
	Grains     int              `gorm:"not null;default:0"`
	Timestamp  time.Time        `gorm:"not null"`
	Photos     []MealPhotoModel `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE"`
}

func (MealModel) TableName() string { return "meals" }

// MealPhotoModel строка таблицы meal_photos
type MealPhotoModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	MealID    int64  `gorm:"not null;index"`
	ImagePath string `gorm:"not null"`
}

func (MealPhotoModel) TableName() string { return "meal_photos" }

// NormsModel строка таблицы nutrition_norms
type NormsModel struct {
	UserID     int64 `gorm:"primaryKey;autoIncrement:false"`
	Protein    int   `gorm:"not null"`
	Vegetables int   `gorm:"not null"`
	Fats       int   `gorm:"not null"`
	Fruits     int   `gorm:"not null"`
	Dairy      int   `gorm:"not null"`
	Grains     int   `gorm:"not null"`
	UpdatedAt  time.Time
}

func (NormsModel) TableName() string { return "nutrition_norms" }

// GormEntryRepository хранилище записей в Postgres через GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository открывает базу и запускает авто-миграции
func NewGormEntryRepository(dsn string) (*GormEntryRepository, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&MealModel{}, &MealPhotoModel{}, &NormsModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormEntryRepository{db: db}, nil
}

// Close закрывает пул соединений
func (r *GormEntryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AddEntry создаёт запись вместе с фото (GORM вставляет ассоциации в одной транзакции)
func (r *GormEntryRepository) AddEntry(ctx context.Context, entry *entity.DiaryEntry) (int64, error) {
	date, err := time.ParseInLocation(entity.DateLayout, entry.Date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse date: %w", err)
	}

	p := entry.Portions
	model := MealModel{
		UserID:     entry.UserID,
		Date:       datatypes.Date(date),
		MealTime:   entry.MealTime,
		Protein:    p.Protein,
		Vegetables: p.Vegetables,
		Fats:       p.Fats,
		Fruits:     p.Fruits,
		Dairy:      p.Dairy,
		Grains:     p.Grains,
		Timestamp:  entry.Timestamp,
	}
	for _, path := range entry.ImagePaths {
		model.Photos = append(model.Photos, MealPhotoModel{ImagePath: path})
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	entry.ID = model.ID
	return model.ID, nil
}

// GetEntries возвращает записи за дату
func (r *GormEntryRepository) GetEntries(ctx context.Context, userID int64, date string) ([]entity.DiaryEntry, error) {
	var models []MealModel
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ? AND date = ?", userID, date).
		Order("timestamp ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	return toEntries(models), nil
}

// GetEntriesForPeriod возвращает записи за период включительно
func (r *GormEntryRepository) GetEntriesForPeriod(ctx context.Context, userID int64, startDate, endDate string) ([]entity.DiaryEntry, error) {
	var models []MealModel
	err := r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("date ASC, timestamp ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	return toEntries(models), nil
}

// GetNorms возвращает нормы пользователя
func (r *GormEntryRepository) GetNorms(ctx context.Context, userID int64) (entity.NutritionRecommendations, bool, error) {
	var m NormsModel
	err := r.db.WithContext(ctx).First(&m, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.DefaultRecommendations(), false, nil
	}
	if err != nil {
		return entity.NutritionRecommendations{}, false, fmt.Errorf("query norms: %w", err)
	}
	return entity.NutritionRecommendations{Portions: entity.Portions{
		Protein:    m.Protein,
		Vegetables: m.Vegetables,
		Fats:       m.Fats,
		Fruits:     m.Fruits,
		Dairy:      m.Dairy,
		Grains:     m.Grains,
	}}, true, nil
}

// SaveNorms создаёт или перезаписывает нормы пользователя
func (r *GormEntryRepository) SaveNorms(ctx context.Context, userID int64, norms entity.NutritionRecommendations) error {
	m := NormsModel{
		UserID:     userID,
		Protein:    norms.Protein,
		Vegetables: norms.Vegetables,
		Fats:       norms.Fats,
		Fruits:     norms.Fruits,
		Dairy:      norms.Dairy,
		Grains:     norms.Grains,
		UpdatedAt:  time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"protein", "vegetables", "fats", "fruits", "dairy", "grains", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("upsert norms: %w", err)
	}
	return nil
}

func toEntries(models []MealModel) []entity.DiaryEntry {
	entries := make([]entity.DiaryEntry, 0, len(models))
	for _, m := range models {
		paths := make([]string, 0, len(m.Photos))
		for _, photo := range m.Photos {
			paths = append(paths, photo.ImagePath)
		}
		entries = append(entries, entity.DiaryEntry{
			ID:       m.ID,
			UserID:   m.UserID,
			Date:     time.Time(m.Date).Format(entity.DateLayout),
			MealTime: m.MealTime,
			Portions: entity.Portions{
				Protein:    m.Protein,
				Vegetables: m.Vegetables,
				Fats:       m.Fats,
				Fruits:     m.Fruits,
				Dairy:      m.Dairy,
				Grains:     m.Grains,
			},
			ImagePaths: paths,
			Timestamp:  m.Timestamp.In(entity.Moscow),
		})
	}
	return entries
}

var (
	_ port.EntryRepository = (*GormEntryRepository)(nil)
	_ port.NormsRepository = (*GormEntryRepository)(nil)
)

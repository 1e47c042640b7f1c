package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"diary-bot/internal/domain/entity"
	"diary-bot/internal/domain/port"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteEntryRepository хранилище записей дневника и норм в SQLite
type SQLiteEntryRepository struct {
	db *sql.DB
}

// NewSQLiteEntryRepository открывает базу и применяет схему
func NewSQLiteEntryRepository(dbPath string) (*SQLiteEntryRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Одно соединение: писатель у SQLite один, а ":memory:" живёт в пределах соединения
	db.SetMaxOpenConns(1)

	repo := &SQLiteEntryRepository{db: db}
	if err := repo.applySchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return repo, nil
}

func (r *SQLiteEntryRepository) applySchema() error {
	if _, err := r.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	_, err := r.db.Exec(schemaSQL)
	return err
}

// Close закрывает соединение
func (r *SQLiteEntryRepository) Close() error {
	return r.db.Close()
}

// AddEntry вставляет запись и её фото в одной транзакции
func (r *SQLiteEntryRepository) AddEntry(ctx context.Context, entry *entity.DiaryEntry) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	p := entry.Portions
	res, err := tx.ExecContext(ctx, `
        INSERT INTO meals (user_id, date, meal_time, protein, vegetables, fats, fruits, dairy, grains, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		entry.UserID, entry.Date, entry.MealTime,
		p.Protein, p.Vegetables, p.Fats, p.Fruits, p.Dairy, p.Grains,
		entry.Timestamp.In(entity.Moscow).Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert meal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("meal id: %w", err)
	}

	for _, path := range entry.ImagePaths {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meal_photos (meal_id, image_path) VALUES (?, ?)`, id, path); err != nil {
			return 0, fmt.Errorf("insert meal photo: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	entry.ID = id
	return id, nil
}

// GetEntries возвращает записи за дату
func (r *SQLiteEntryRepository) GetEntries(ctx context.Context, userID int64, date string) ([]entity.DiaryEntry, error) {
	return r.queryEntries(ctx, `
        SELECT id, user_id, date, meal_time, protein, vegetables, fats, fruits, dairy, grains, timestamp
        FROM meals
        WHERE user_id = ? AND date = ?
        ORDER BY timestamp ASC, id ASC
    `, userID, date)
}

// GetEntriesForPeriod возвращает записи за период включительно
func (r *SQLiteEntryRepository) GetEntriesForPeriod(ctx context.Context, userID int64, startDate, endDate string) ([]entity.DiaryEntry, error) {
	return r.queryEntries(ctx, `
        SELECT id, user_id, date, meal_time, protein, vegetables, fats, fruits, dairy, grains, timestamp
        FROM meals
        WHERE user_id = ? AND date BETWEEN ? AND ?
        ORDER BY date ASC, timestamp ASC, id ASC
    `, userID, startDate, endDate)
}

func (r *SQLiteEntryRepository) queryEntries(ctx context.Context, query string, args ...any) ([]entity.DiaryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}

	var entries []entity.DiaryEntry
	for rows.Next() {
		var e entity.DiaryEntry
		var stamp string
		err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.MealTime,
			&e.Portions.Protein, &e.Portions.Vegetables, &e.Portions.Fats,
			&e.Portions.Fruits, &e.Portions.Dairy, &e.Portions.Grains, &stamp)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339, stamp); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse timestamp: %w", err)
		}
		e.Timestamp = e.Timestamp.In(entity.Moscow)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate meals: %w", err)
	}
	rows.Close()

	// Фото читаем после закрытия курсора: соединение у базы одно
	for i := range entries {
		paths, err := r.loadPhotos(ctx, entries[i].ID)
		if err != nil {
			return nil, fmt.Errorf("load photos for meal %d: %w", entries[i].ID, err)
		}
		entries[i].ImagePaths = paths
	}
	return entries, nil
}

func (r *SQLiteEntryRepository) loadPhotos(ctx context.Context, mealID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT image_path FROM meal_photos WHERE meal_id = ? ORDER BY id`, mealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// GetNorms возвращает нормы пользователя
func (r *SQLiteEntryRepository) GetNorms(ctx context.Context, userID int64) (entity.NutritionRecommendations, bool, error) {
	var n entity.NutritionRecommendations
	err := r.db.QueryRowContext(ctx, `
        SELECT protein, vegetables, fats, fruits, dairy, grains
        FROM nutrition_norms
        WHERE user_id = ?
    `, userID).Scan(&n.Protein, &n.Vegetables, &n.Fats, &n.Fruits, &n.Dairy, &n.Grains)
	if err == sql.ErrNoRows {
		return entity.DefaultRecommendations(), false, nil
	}
	if err != nil {
		return n, false, fmt.Errorf("query norms: %w", err)
	}
	return n, true, nil
}

// SaveNorms создаёт или перезаписывает нормы пользователя
func (r *SQLiteEntryRepository) SaveNorms(ctx context.Context, userID int64, norms entity.NutritionRecommendations) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO nutrition_norms (user_id, protein, vegetables, fats, fruits, dairy, grains, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET
            protein = excluded.protein,
            vegetables = excluded.vegetables,
            fats = excluded.fats,
            fruits = excluded.fruits,
            dairy = excluded.dairy,
            grains = excluded.grains,
            updated_at = excluded.updated_at
    `, userID, norms.Protein, norms.Vegetables, norms.Fats, norms.Fruits, norms.Dairy, norms.Grains,
		time.Now().In(entity.Moscow).Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert norms: %w", err)
	}
	return nil
}

var (
	_ port.EntryRepository = (*SQLiteEntryRepository)(nil)
	_ port.NormsRepository = (*SQLiteEntryRepository)(nil)
)

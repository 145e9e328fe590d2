package stats

import (
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"driftline/game"
)

const totalsID = 1

var memoryDBs atomic.Int64

// GormStore keeps totals and history in a SQL database
type GormStore struct {
	db    *gorm.DB
	sqlDB *sql.DB
	log   zerolog.Logger
}

// NewSQLite opens a SQLite store at path. An empty path uses a private
// in-memory database.
func NewSQLite(path string, log zerolog.Logger) (*GormStore, error) {
	dsn := path
	memory := path == ""
	if memory {
		dsn = fmt.Sprintf("file:driftline-%d?mode=memory&cache=shared", memoryDBs.Add(1))
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", dsn, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	}
	if memory {
		pragmas = []string{"PRAGMA journal_mode = MEMORY;"}
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	s, err := newGormStore(db, log)
	if err != nil {
		return nil, err
	}
	if memory {
		// the database lives as long as one connection holds it
		s.sqlDB.SetMaxOpenConns(1)
		s.log.Info().Msg("Using in-memory SQLite stats")
	} else {
		s.log.Info().Str("path", path).Msg("Using SQLite stats")
	}
	return s, nil
}

// NewPostgres connects to a Postgres store
func NewPostgres(dsn string, log zerolog.Logger) (*GormStore, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s, err := newGormStore(db, log)
	if err != nil {
		return nil, err
	}
	s.sqlDB.SetMaxOpenConns(4)
	s.log.Info().Msg("Connected to Postgres stats")
	return s, nil
}

func newGormStore(db *gorm.DB, log zerolog.Logger) (*GormStore, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}

	if err := db.AutoMigrate(&totalsRow{}, &RunRecord{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate stats tables: %w", err)
	}

	row := totalsRow{ID: totalsID}
	if err := db.FirstOrCreate(&row, totalsRow{ID: totalsID}).Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create totals row: %w", err)
	}

	return &GormStore{db: db, sqlDB: sqlDB, log: log}, nil
}

// RecordAttempt counts a started run
func (s *GormStore) RecordAttempt() error {
	err := s.db.Model(&totalsRow{}).
		Where("id = ?", totalsID).
		Update("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	return nil
}

// RecordCrash folds a finished run into the totals and appends it to the
// history in one transaction
func (s *GormStore) RecordCrash(ev game.CrashEvent) error {
	rec, err := newRunRecord(ev)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"crashes": gorm.Expr("crashes + 1"),
	}
	if !ev.Invalid {
		updates["coins"] = gorm.Expr("coins + ?", ev.Coins)
		updates["best_time"] = gorm.Expr("CASE WHEN best_time < ? THEN ? ELSE best_time END", ev.Elapsed, ev.Elapsed)
		updates["best_score"] = gorm.Expr("CASE WHEN best_score < ? THEN ? ELSE best_score END", ev.Score, ev.Score)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&totalsRow{}).Where("id = ?", totalsID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return fmt.Errorf("recording crash: %w", err)
	}

	s.log.Debug().Int("run", ev.Run).Uint("record", rec.ID).Msg("Recorded crash")
	return nil
}

// Totals reads the totals row
func (s *GormStore) Totals() (Totals, error) {
	var row totalsRow
	if err := s.db.First(&row, totalsID).Error; err != nil {
		return Totals{}, fmt.Errorf("reading totals: %w", err)
	}
	return row.totals(), nil
}

// History returns the most recent records first
func (s *GormStore) History(limit int) ([]RunRecord, error) {
	q := s.db.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []RunRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return out, nil
}

// Close releases the connection pool
func (s *GormStore) Close() error {
	return s.sqlDB.Close()
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/geoscope/geoscope/internal/models"
)

// SQLite implements the registry database interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *models.Config
}

// New creates a new SQLite database instance
func New(config *models.Config) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// Connect establishes connection to SQLite
func (s *SQLite) Connect(ctx context.Context) error {
	// Expand the URI path (handle ~ and relative paths)
	dbPath := s.config.URI
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = db

	if err := s.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for migrations
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// createTables creates necessary tables
func (s *SQLite) createTables(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS llms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			api_key TEXT,
			base_url TEXT,
			config TEXT,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS brands (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			aliases TEXT,
			logo TEXT,
			subject INTEGER NOT NULL DEFAULT 0,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS keywords (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			prompts TEXT,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS schedules (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			llm_ids TEXT,
			cron_expr TEXT NOT NULL,
			temperature REAL,
			enabled INTEGER NOT NULL DEFAULT 1,
			last_run DATETIME,
			next_run DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// LLM operations

// CreateLLM inserts an LLM configuration
func (s *SQLite) CreateLLM(ctx context.Context, llm *models.LLMConfig) error {
	stampNew(&llm.CreatedAt, &llm.UpdatedAt)
	configJSON, err := json.Marshal(llm.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal LLM config: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO llms (id, name, provider, model, api_key, base_url, config, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		llm.ID, llm.Name, llm.Provider, llm.Model, llm.APIKey, llm.BaseURL,
		string(configJSON), llm.Enabled, llm.CreatedAt, llm.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create LLM: %w", err)
	}
	return nil
}

// GetLLM fetches an LLM configuration by id
func (s *SQLite) GetLLM(ctx context.Context, id string) (*models.LLMConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, provider, model, api_key, base_url, config, enabled, created_at, updated_at
		 FROM llms WHERE id = ?`, id)
	return scanLLM(row)
}

// ListLLMs lists LLM configurations, optionally filtered by enabled state
func (s *SQLite) ListLLMs(ctx context.Context, enabled *bool) ([]*models.LLMConfig, error) {
	query := `SELECT id, name, provider, model, api_key, base_url, config, enabled, created_at, updated_at
		FROM llms`
	args := []interface{}{}
	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list LLMs: %w", err)
	}
	defer rows.Close()

	var llms []*models.LLMConfig
	for rows.Next() {
		llm, err := scanLLM(rows)
		if err != nil {
			return nil, err
		}
		llms = append(llms, llm)
	}
	return llms, rows.Err()
}

// UpdateLLM updates an LLM configuration
func (s *SQLite) UpdateLLM(ctx context.Context, llm *models.LLMConfig) error {
	configJSON, err := json.Marshal(llm.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal LLM config: %w", err)
	}

	llm.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE llms SET name = ?, provider = ?, model = ?, api_key = ?, base_url = ?, config = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		llm.Name, llm.Provider, llm.Model, llm.APIKey, llm.BaseURL,
		string(configJSON), llm.Enabled, llm.UpdatedAt, llm.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update LLM: %w", err)
	}
	return requireRow(result, "LLM", llm.ID)
}

// DeleteLLM removes an LLM configuration
func (s *SQLite) DeleteLLM(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM llms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete LLM: %w", err)
	}
	return requireRow(result, "LLM", id)
}

// Tracked brand operations

// CreateBrand inserts a tracked brand
func (s *SQLite) CreateBrand(ctx context.Context, brand *models.TrackedBrand) error {
	stampNew(&brand.CreatedAt, &brand.UpdatedAt)
	aliasesJSON, err := json.Marshal(brand.Aliases)
	if err != nil {
		return fmt.Errorf("failed to marshal brand aliases: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO brands (id, name, aliases, logo, subject, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		brand.ID, brand.Name, string(aliasesJSON), brand.Logo, brand.Subject,
		brand.Enabled, brand.CreatedAt, brand.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

// GetBrand fetches a tracked brand by id
func (s *SQLite) GetBrand(ctx context.Context, id string) (*models.TrackedBrand, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, aliases, logo, subject, enabled, created_at, updated_at
		 FROM brands WHERE id = ?`, id)
	return scanBrand(row)
}

// GetBrandByName fetches a tracked brand by name
func (s *SQLite) GetBrandByName(ctx context.Context, name string) (*models.TrackedBrand, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, aliases, logo, subject, enabled, created_at, updated_at
		 FROM brands WHERE name = ?`, name)
	return scanBrand(row)
}

// ListBrands lists tracked brands, optionally filtered by enabled state
func (s *SQLite) ListBrands(ctx context.Context, enabled *bool) ([]*models.TrackedBrand, error) {
	query := `SELECT id, name, aliases, logo, subject, enabled, created_at, updated_at FROM brands`
	args := []interface{}{}
	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	var brands []*models.TrackedBrand
	for rows.Next() {
		brand, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, brand)
	}
	return brands, rows.Err()
}

// UpdateBrand updates a tracked brand
func (s *SQLite) UpdateBrand(ctx context.Context, brand *models.TrackedBrand) error {
	aliasesJSON, err := json.Marshal(brand.Aliases)
	if err != nil {
		return fmt.Errorf("failed to marshal brand aliases: %w", err)
	}

	brand.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE brands SET name = ?, aliases = ?, logo = ?, subject = ?, enabled = ?, updated_at = ?
		 WHERE id = ?`,
		brand.Name, string(aliasesJSON), brand.Logo, brand.Subject,
		brand.Enabled, brand.UpdatedAt, brand.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	return requireRow(result, "brand", brand.ID)
}

// DeleteBrand removes a tracked brand
func (s *SQLite) DeleteBrand(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM brands WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	return requireRow(result, "brand", id)
}

// Tracked keyword operations

// CreateKeyword inserts a tracked keyword
func (s *SQLite) CreateKeyword(ctx context.Context, keyword *models.TrackedKeyword) error {
	stampNew(&keyword.CreatedAt, &keyword.UpdatedAt)
	promptsJSON, err := json.Marshal(keyword.Prompts)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword prompts: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO keywords (id, name, prompts, enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		keyword.ID, keyword.Name, string(promptsJSON), keyword.Enabled,
		keyword.CreatedAt, keyword.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create keyword: %w", err)
	}
	return nil
}

// GetKeyword fetches a tracked keyword by id
func (s *SQLite) GetKeyword(ctx context.Context, id string) (*models.TrackedKeyword, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, prompts, enabled, created_at, updated_at FROM keywords WHERE id = ?`, id)
	return scanKeyword(row)
}

// ListKeywords lists tracked keywords, optionally filtered by enabled state
func (s *SQLite) ListKeywords(ctx context.Context, enabled *bool) ([]*models.TrackedKeyword, error) {
	query := `SELECT id, name, prompts, enabled, created_at, updated_at FROM keywords`
	args := []interface{}{}
	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*models.TrackedKeyword
	for rows.Next() {
		keyword, err := scanKeyword(rows)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, keyword)
	}
	return keywords, rows.Err()
}

// UpdateKeyword updates a tracked keyword
func (s *SQLite) UpdateKeyword(ctx context.Context, keyword *models.TrackedKeyword) error {
	promptsJSON, err := json.Marshal(keyword.Prompts)
	if err != nil {
		return fmt.Errorf("failed to marshal keyword prompts: %w", err)
	}

	keyword.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE keywords SET name = ?, prompts = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		keyword.Name, string(promptsJSON), keyword.Enabled, keyword.UpdatedAt, keyword.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update keyword: %w", err)
	}
	return requireRow(result, "keyword", keyword.ID)
}

// DeleteKeyword removes a tracked keyword
func (s *SQLite) DeleteKeyword(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM keywords WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword: %w", err)
	}
	return requireRow(result, "keyword", id)
}

// Collection schedule operations

// CreateSchedule inserts a collection schedule
func (s *SQLite) CreateSchedule(ctx context.Context, schedule *models.CollectionSchedule) error {
	stampNew(&schedule.CreatedAt, &schedule.UpdatedAt)
	llmIDsJSON, err := json.Marshal(schedule.LLMIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule LLM ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO schedules (id, name, llm_ids, cron_expr, temperature, enabled, last_run, next_run, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		schedule.ID, schedule.Name, string(llmIDsJSON), schedule.CronExpr,
		schedule.Temperature, schedule.Enabled, schedule.LastRun, schedule.NextRun,
		schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetSchedule fetches a collection schedule by id
func (s *SQLite) GetSchedule(ctx context.Context, id string) (*models.CollectionSchedule, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, llm_ids, cron_expr, temperature, enabled, last_run, next_run, created_at, updated_at
		 FROM schedules WHERE id = ?`, id)
	return scanSchedule(row)
}

// ListSchedules lists collection schedules, optionally filtered by enabled state
func (s *SQLite) ListSchedules(ctx context.Context, enabled *bool) ([]*models.CollectionSchedule, error) {
	query := `SELECT id, name, llm_ids, cron_expr, temperature, enabled, last_run, next_run, created_at, updated_at
		FROM schedules`
	args := []interface{}{}
	if enabled != nil {
		query += " WHERE enabled = ?"
		args = append(args, *enabled)
	}
	query += " ORDER BY created_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.CollectionSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

// UpdateSchedule updates a collection schedule
func (s *SQLite) UpdateSchedule(ctx context.Context, schedule *models.CollectionSchedule) error {
	llmIDsJSON, err := json.Marshal(schedule.LLMIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule LLM ids: %w", err)
	}

	schedule.UpdatedAt = time.Now()
	result, err := s.db.ExecContext(ctx,
		`UPDATE schedules SET name = ?, llm_ids = ?, cron_expr = ?, temperature = ?, enabled = ?, last_run = ?, next_run = ?, updated_at = ?
		 WHERE id = ?`,
		schedule.Name, string(llmIDsJSON), schedule.CronExpr, schedule.Temperature,
		schedule.Enabled, schedule.LastRun, schedule.NextRun, schedule.UpdatedAt, schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return requireRow(result, "schedule", schedule.ID)
}

// DeleteSchedule removes a collection schedule
func (s *SQLite) DeleteSchedule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return requireRow(result, "schedule", id)
}

// scanner matches both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLLM(row scanner) (*models.LLMConfig, error) {
	var llm models.LLMConfig
	var configJSON sql.NullString
	var apiKey, baseURL sql.NullString

	err := row.Scan(&llm.ID, &llm.Name, &llm.Provider, &llm.Model, &apiKey, &baseURL,
		&configJSON, &llm.Enabled, &llm.CreatedAt, &llm.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("LLM not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan LLM: %w", err)
	}

	llm.APIKey = apiKey.String
	llm.BaseURL = baseURL.String
	if configJSON.Valid && configJSON.String != "" {
		if err := json.Unmarshal([]byte(configJSON.String), &llm.Config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal LLM config: %w", err)
		}
	}
	return &llm, nil
}

func scanBrand(row scanner) (*models.TrackedBrand, error) {
	var brand models.TrackedBrand
	var aliasesJSON, logo sql.NullString

	err := row.Scan(&brand.ID, &brand.Name, &aliasesJSON, &logo, &brand.Subject,
		&brand.Enabled, &brand.CreatedAt, &brand.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("brand not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan brand: %w", err)
	}

	brand.Logo = logo.String
	if aliasesJSON.Valid && aliasesJSON.String != "" {
		if err := json.Unmarshal([]byte(aliasesJSON.String), &brand.Aliases); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brand aliases: %w", err)
		}
	}
	return &brand, nil
}

func scanKeyword(row scanner) (*models.TrackedKeyword, error) {
	var keyword models.TrackedKeyword
	var promptsJSON sql.NullString

	err := row.Scan(&keyword.ID, &keyword.Name, &promptsJSON, &keyword.Enabled,
		&keyword.CreatedAt, &keyword.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("keyword not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan keyword: %w", err)
	}

	if promptsJSON.Valid && promptsJSON.String != "" {
		if err := json.Unmarshal([]byte(promptsJSON.String), &keyword.Prompts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keyword prompts: %w", err)
		}
	}
	return &keyword, nil
}

func scanSchedule(row scanner) (*models.CollectionSchedule, error) {
	var schedule models.CollectionSchedule
	var llmIDsJSON sql.NullString
	var lastRun, nextRun sql.NullTime

	err := row.Scan(&schedule.ID, &schedule.Name, &llmIDsJSON, &schedule.CronExpr,
		&schedule.Temperature, &schedule.Enabled, &lastRun, &nextRun,
		&schedule.CreatedAt, &schedule.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("schedule not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}

	if lastRun.Valid {
		schedule.LastRun = &lastRun.Time
	}
	if nextRun.Valid {
		schedule.NextRun = &nextRun.Time
	}
	if llmIDsJSON.Valid && llmIDsJSON.String != "" {
		if err := json.Unmarshal([]byte(llmIDsJSON.String), &schedule.LLMIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule LLM ids: %w", err)
		}
	}
	return &schedule, nil
}

// stampNew fills creation timestamps when the caller left them zero
func stampNew(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	if updatedAt.IsZero() {
		*updatedAt = now
	}
}

func requireRow(result sql.Result, entity, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

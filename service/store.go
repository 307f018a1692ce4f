package service

import (
	"context"
	"fmt"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naiseuue444/lawpal-ai-contracts-india/config"
	"github.com/naiseuue444/lawpal-ai-contracts-india/model"
)

// contentTextCap limits how much extracted text is stored on the contract
// row. The capped copy doubles as the dedup key for prior-risk lookups.
const contentTextCap = 10000

// Store is the persistence gateway for contracts, clauses, reports, users
// and chat queries.
type Store struct {
	db *gorm.DB
}

// OpenDB opens (or creates) the SQLite database and applies PRAGMAs.
func OpenDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the schema for all entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Contract{},
		&model.Clause{},
		&model.Report{},
		&model.ChatQuery{},
	)
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateContract inserts a new contract row with status pending.
func (s *Store) CreateContract(ctx context.Context, userID, filename string, fileSize int64) (*model.Contract, error) {
	contract := &model.Contract{
		ID:             uuid.NewString(),
		UserID:         userID,
		Filename:       filename,
		FileSize:       fileSize,
		AnalysisStatus: model.StatusPending,
		UploadDate:     time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	return contract, nil
}

// GetContract fetches a contract with its clauses ordered by clause number.
func (s *Store) GetContract(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	err := s.db.WithContext(ctx).
		Preload("Clauses", func(db *gorm.DB) *gorm.DB {
			return db.Order("clause_number ASC")
		}).
		First(&contract, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListContracts returns all contracts for a user, newest first, without
// clause detail or content text.
func (s *Store) ListContracts(ctx context.Context, userID string) ([]model.Contract, error) {
	var contracts []model.Contract
	err := s.db.WithContext(ctx).
		Select("id", "user_id", "filename", "file_size", "analysis_status",
			"contract_type", "risk_score", "jurisdiction", "arbitration_present", "upload_date").
		Where("user_id = ?", userID).
		Order("upload_date DESC").
		Find(&contracts).Error
	return contracts, err
}

// UpdateStatus performs an unconditional status write. Last writer wins.
func (s *Store) UpdateStatus(ctx context.Context, contractID, status string) error {
	return s.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("id = ?", contractID).
		Update("analysis_status", status).Error
}

// WriteAnalysisResult sets the derived contract fields and stores a capped
// copy of the extracted text, then inserts the clause rows in a single
// transaction. Clause numbers are re-asserted as index+1 before insert so
// numbering is contiguous from 1 no matter what the analyzer produced.
func (s *Store) WriteAnalysisResult(ctx context.Context, contractID string, analysis *model.ContractAnalysis, rawText string) error {
	truncated := rawText
	if len(truncated) > contentTextCap {
		truncated = truncated[:contentTextCap]
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&model.Contract{}).
			Where("id = ?", contractID).
			Updates(map[string]any{
				"analysis_status":     model.StatusCompleted,
				"contract_type":       analysis.ContractType,
				"risk_score":          analysis.RiskScore,
				"jurisdiction":        analysis.Jurisdiction,
				"arbitration_present": analysis.ArbitrationPresent,
				"content_text":        truncated,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		for i, clause := range analysis.Clauses {
			row := model.Clause{
				ID:           uuid.NewString(),
				ContractID:   contractID,
				ClauseNumber: i + 1,
				Title:        clause.Title,
				ClauseText:   clause.ClauseText,
				SummaryEn:    clause.SummaryEn,
				SummaryHi:    clause.SummaryHi,
				RiskScore:    clause.RiskScore,
				Suggestion:   clause.Suggestion,
				FlagType:     clause.FlagType,
				CreatedAt:    time.Now().UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to insert clause %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// FindPriorRisk looks up a previously completed contract whose stored
// truncated text equals the given text and returns its aggregate risk
// level. Empty string means no prior analysis exists. The lookup key is
// the raw truncated string, not a hash.
func (s *Store) FindPriorRisk(ctx context.Context, truncatedText string) (string, error) {
	if truncatedText == "" {
		return "", nil
	}
	if len(truncatedText) > contentTextCap {
		truncatedText = truncatedText[:contentTextCap]
	}

	var contract model.Contract
	err := s.db.WithContext(ctx).
		Select("id", "risk_score").
		Where("analysis_status = ? AND content_text = ? AND risk_score != ''",
			model.StatusCompleted, truncatedText).
		Order("upload_date ASC").
		First(&contract).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return contract.RiskScore, nil
}

// UpsertReport writes the published PDF URL for a contract, keyed by
// contract id. An existing row has its URL and timestamp overwritten.
func (s *Store) UpsertReport(ctx context.Context, contractID, pdfURL string) (*model.Report, error) {
	var report model.Report
	err := s.db.WithContext(ctx).First(&report, "contract_id = ?", contractID).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		report = model.Report{
			ID:          uuid.NewString(),
			ContractID:  contractID,
			PDFURL:      pdfURL,
			GeneratedOn: time.Now().UTC(),
		}
		if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
			return nil, fmt.Errorf("failed to insert report: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		report.PDFURL = pdfURL
		report.GeneratedOn = time.Now().UTC()
		if err := s.db.WithContext(ctx).Save(&report).Error; err != nil {
			return nil, fmt.Errorf("failed to update report: %w", err)
		}
	}
	return &report, nil
}

// GetReport returns the report row for a contract, or nil when none exists.
func (s *Store) GetReport(ctx context.Context, contractID string) (*model.Report, error) {
	var report model.Report
	err := s.db.WithContext(ctx).First(&report, "contract_id = ?", contractID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	return s.db.WithContext(ctx).Create(user).Error
}

// FindUserByEmail returns the user with the given email, or nil.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// LogChatQuery records a user question, optionally tied to a contract.
func (s *Store) LogChatQuery(ctx context.Context, userID, message, response string, contractID *string) (*model.ChatQuery, error) {
	q := &model.ChatQuery{
		ID:         uuid.NewString(),
		UserID:     userID,
		ContractID: contractID,
		Message:    message,
		Response:   response,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, fmt.Errorf("failed to log chat query: %w", err)
	}
	return q, nil
}

// ListChatQueries returns a user's chat history, newest first.
func (s *Store) ListChatQueries(ctx context.Context, userID string) ([]model.ChatQuery, error) {
	var out []model.ChatQuery
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

package model

import (
	"time"
)

// Contract represents an uploaded legal document and the analysis derived
// from it. Derived fields (ContractType, RiskScore, Jurisdiction,
// ArbitrationPresent, ContentText) are only populated once analysis
// completes.
type Contract struct {
	ID                 string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID             string    `json:"user_id" gorm:"type:char(36);not null;index"`
	Filename           string    `json:"filename" gorm:"type:varchar(255);not null"`
	FileSize           int64     `json:"file_size"`
	AnalysisStatus     string    `json:"analysis_status" gorm:"type:varchar(16);not null;default:'pending'"`
	ContractType       string    `json:"contract_type,omitempty" gorm:"type:varchar(128)"`
	RiskScore          string    `json:"risk_score,omitempty" gorm:"type:varchar(8)"`
	Jurisdiction       string    `json:"jurisdiction,omitempty" gorm:"type:varchar(128)"`
	ArbitrationPresent bool      `json:"arbitration_present"`
	ContentText        string    `json:"content_text,omitempty" gorm:"type:text"`
	UploadDate         time.Time `json:"upload_date"`

	Clauses []Clause `json:"clauses,omitempty" gorm:"foreignKey:ContractID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Contract) TableName() string { return "contracts" }

// Clause is one analyzed provision of a contract. Clause numbers for a
// contract are contiguous starting at 1; the store re-indexes before
// insert so the invariant holds regardless of what the analyzer produced.
type Clause struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey"`
	ContractID   string    `json:"contract_id" gorm:"type:char(36);not null;index"`
	ClauseNumber int       `json:"clause_number" gorm:"not null"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	ClauseText   string    `json:"clause_text" gorm:"type:text;not null"`
	SummaryEn    string    `json:"summary_en,omitempty" gorm:"type:text"`
	SummaryHi    string    `json:"summary_hi,omitempty" gorm:"type:text"`
	RiskScore    string    `json:"risk_score" gorm:"type:varchar(8);not null"`
	Suggestion   string    `json:"suggestion,omitempty" gorm:"type:text"`
	FlagType     string    `json:"flag_type,omitempty" gorm:"type:varchar(64)"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Clause) TableName() string { return "clauses" }

// Report holds the published PDF location for a contract. At most one row
// per contract; regeneration overwrites PDFURL and GeneratedOn.
type Report struct {
	ID          string    `json:"id" gorm:"type:char(36);primaryKey"`
	ContractID  string    `json:"contract_id" gorm:"type:char(36);not null;uniqueIndex"`
	PDFURL      string    `json:"pdf_url" gorm:"type:text"`
	GeneratedOn time.Time `json:"generated_on"`
}

func (Report) TableName() string { return "reports" }

// User is an account holder. Never hard-deleted.
type User struct {
	ID           string    `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(128)"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Organization string    `json:"organization,omitempty" gorm:"type:varchar(255)"`
	Role         string    `json:"role" gorm:"type:varchar(32);not null;default:'member'"`
	LanguagePref string    `json:"language_pref" gorm:"type:varchar(8);not null;default:'en'"`
	Plan         string    `json:"plan" gorm:"type:varchar(32);not null;default:'free'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// ChatQuery is a logged user question, optionally tied to a contract.
type ChatQuery struct {
	ID         string    `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id" gorm:"type:char(36);not null;index"`
	ContractID *string   `json:"contract_id,omitempty" gorm:"type:char(36);index"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	Response   string    `json:"response,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

func (ChatQuery) TableName() string { return "chat_queries" }

// Contract lifecycle status constants
const (
	StatusPending   = "pending"
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Contract-level aggregate risk
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Per-clause risk, distinct from the aggregate scale
const (
	ClauseSafe    = "safe"
	ClauseCaution = "caution"
	ClauseRisky   = "risky"
)

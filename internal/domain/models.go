// Package domain defines the persistence models for facility assessments:
// assessment types, sections, questions and responses on the questionnaire
// side, and departments, commodity categories, commodities and availability
// responses on the commodity side. Derived score rows (SectionScore,
// DepartmentScore) are owned by the scoring engine. These types are mapped
// with GORM and form the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssessmentType is the configuration shared by every assessment of a kind
// (e.g. "Infection prevention walk-through"). It selects how the overall
// score is graded and which aggregation feeds the overall fields.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Code: short unique identifier used by seeds and operators.
//   - GradingPolicy: three_tier (80/50) or five_tier (90/75/60/50).
//   - ScoringMode: questionnaire (sections) or commodity (availability grid).
type AssessmentType struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	Code          string         `json:"code"           gorm:"type:varchar(64);not null;uniqueIndex"`
	Name          string         `json:"name"           gorm:"type:varchar(255);not null"`
	GradingPolicy GradingPolicy  `json:"grading_policy" gorm:"type:varchar(16);not null"`
	ScoringMode   ScoringMode    `json:"scoring_mode"   gorm:"type:varchar(16);not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for AssessmentType.
func (AssessmentType) TableName() string { return "assessment_types" }

// Assessment is one evaluation of a facility at a point in time. The overall
// fields are derived and only written by the scoring engine; they stay nil
// until the first successful overall aggregation.
//
// Metadata holds engine bookkeeping such as "last_scored_at" and, for the
// five-tier policy, a "section_scores" snapshot.
type Assessment struct {
	ID                string            `json:"id"                           gorm:"type:char(36);primaryKey"`
	AssessmentTypeID  string            `json:"assessment_type_id"           gorm:"type:char(36);not null;index"`
	FacilityName      string            `json:"facility_name"                gorm:"type:varchar(255);not null"`
	AssessorID        string            `json:"assessor_id"                  gorm:"type:varchar(64);not null;index"`
	Status            AssessmentStatus  `json:"status"                       gorm:"type:varchar(16);not null;index"`
	OverallScore      *float64          `json:"overall_score,omitempty"`
	OverallMaxScore   *float64          `json:"overall_max_score,omitempty"`
	OverallPercentage *float64          `json:"overall_percentage,omitempty"`
	OverallGrade      *Grade            `json:"overall_grade,omitempty"      gorm:"type:varchar(32)"`
	Metadata          datatypes.JSONMap `json:"metadata,omitempty"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `json:"-"                            gorm:"index"`

	AssessmentType AssessmentType `json:"-" gorm:"foreignKey:AssessmentTypeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Assessment.
func (Assessment) TableName() string { return "assessments" }

// Section is a named, ordered group of questions within an assessment type.
// Sections with IsScored=false are informational and never aggregated.
type Section struct {
	ID               string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	AssessmentTypeID string    `json:"assessment_type_id" gorm:"type:char(36);not null;index:idx_type_sections,priority:1"`
	Code             string    `json:"code"               gorm:"type:varchar(64);not null"`
	Name             string    `json:"name"               gorm:"type:varchar(255);not null"`
	SortOrder        int       `json:"sort_order"         gorm:"not null;index:idx_type_sections,priority:2"`
	IsScored         bool      `json:"is_scored"          gorm:"not null"`
	IsActive         bool      `json:"is_active"          gorm:"not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for Section.
func (Section) TableName() string { return "sections" }

// Question belongs to exactly one section. ScoringMap translates a raw
// response value into points; a missing key or a null value means the
// response is not counted.
type Question struct {
	ID           string            `json:"id"            gorm:"type:char(36);primaryKey"`
	SectionID    string            `json:"section_id"    gorm:"type:char(36);not null;index:idx_section_questions,priority:1"`
	Code         string            `json:"code"          gorm:"type:varchar(64);not null"`
	Text         string            `json:"text"          gorm:"type:text;not null"`
	ResponseType ResponseType      `json:"response_type" gorm:"type:varchar(32);not null"`
	IsScored     bool              `json:"is_scored"     gorm:"not null"`
	IsActive     bool              `json:"is_active"     gorm:"not null"`
	SortOrder    int               `json:"sort_order"    gorm:"not null;index:idx_section_questions,priority:2"`
	ScoringMap   datatypes.JSONMap `json:"scoring_map,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	Section Section `json:"-" gorm:"foreignKey:SectionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Question.
func (Question) TableName() string { return "questions" }

// IsMatrix reports whether the question accepts one response per location.
func (q Question) IsMatrix() bool { return q.ResponseType == ResponseMatrix }

// Response is the answer to one question within one assessment. Matrix
// questions have one row per Location; every other type uses Location "".
// Score is written by the scoring engine at save time and never hand-edited.
type Response struct {
	ID            string            `json:"id"                    gorm:"type:char(36);primaryKey"`
	AssessmentID  string            `json:"assessment_id"         gorm:"type:char(36);not null;uniqueIndex:ux_response_assessment_question_location,priority:1"`
	QuestionID    string            `json:"question_id"           gorm:"type:char(36);not null;uniqueIndex:ux_response_assessment_question_location,priority:2;index"`
	Location      string            `json:"location"              gorm:"type:varchar(128);not null;uniqueIndex:ux_response_assessment_question_location,priority:3"`
	ResponseValue *string           `json:"response_value"        gorm:"type:text"`
	Explanation   *string           `json:"explanation,omitempty" gorm:"type:text"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	Score         *float64          `json:"score,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Assessment Assessment `json:"-" gorm:"foreignKey:AssessmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Question   Question   `json:"-" gorm:"foreignKey:QuestionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Response.
func (Response) TableName() string { return "responses" }

// SectionScore is the derived roll-up of one section within one assessment.
// It is fully replaced on every recalculation.
type SectionScore struct {
	ID                string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	AssessmentID      string    `json:"assessment_id"      gorm:"type:char(36);not null;uniqueIndex:ux_section_score_assessment_section,priority:1"`
	SectionID         string    `json:"section_id"         gorm:"type:char(36);not null;uniqueIndex:ux_section_score_assessment_section,priority:2"`
	TotalScore        float64   `json:"total_score"        gorm:"not null"`
	MaxScore          float64   `json:"max_score"          gorm:"not null"`
	Percentage        float64   `json:"percentage"         gorm:"not null"`
	TotalQuestions    int       `json:"total_questions"    gorm:"not null"`
	AnsweredQuestions int       `json:"answered_questions" gorm:"not null"`
	SkippedQuestions  int       `json:"skipped_questions"  gorm:"not null"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the database table name for SectionScore.
func (SectionScore) TableName() string { return "section_scores" }

// Department is a unit of the facility (e.g. "Maternity") whose commodity
// availability is assessed.
type Department struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Code      string    `json:"code"       gorm:"type:varchar(64);not null;uniqueIndex"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"is_active"  gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Department.
func (Department) TableName() string { return "departments" }

// CommodityCategory groups commodities (e.g. "Tracer medicines").
type CommodityCategory struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(255);not null"`
	SortOrder int       `json:"sort_order" gorm:"not null"`
	IsActive  bool      `json:"is_active"  gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for CommodityCategory.
func (CommodityCategory) TableName() string { return "commodity_categories" }

// Commodity is a health product whose availability is checked per department.
type Commodity struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	CategoryID string    `json:"category_id" gorm:"type:char(36);not null;index"`
	Name       string    `json:"name"        gorm:"type:varchar(255);not null"`
	IsActive   bool      `json:"is_active"   gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Category CommodityCategory `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Commodity.
func (Commodity) TableName() string { return "commodities" }

// CommodityApplicability marks a commodity as relevant to a department. The
// set of applicable commodities is the denominator of a department's
// availability percentage.
type CommodityApplicability struct {
	CommodityID  string `json:"commodity_id"  gorm:"type:char(36);primaryKey"`
	DepartmentID string `json:"department_id" gorm:"type:char(36);primaryKey;index"`
}

// TableName returns the database table name for CommodityApplicability.
func (CommodityApplicability) TableName() string { return "commodity_departments" }

// CommodityResponse records whether a commodity was available in a department
// during an assessment. Score is 1 when available and 0 otherwise.
type CommodityResponse struct {
	ID           string    `json:"id"              gorm:"type:char(36);primaryKey"`
	AssessmentID string    `json:"assessment_id"   gorm:"type:char(36);not null;uniqueIndex:ux_commodity_response,priority:1"`
	CommodityID  string    `json:"commodity_id"    gorm:"type:char(36);not null;uniqueIndex:ux_commodity_response,priority:2"`
	DepartmentID string    `json:"department_id"   gorm:"type:char(36);not null;uniqueIndex:ux_commodity_response,priority:3;index"`
	Available    bool      `json:"available"       gorm:"not null"`
	Notes        *string   `json:"notes,omitempty" gorm:"type:text"`
	Score        *float64  `json:"score,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for CommodityResponse.
func (CommodityResponse) TableName() string { return "commodity_responses" }

// DepartmentScore is the derived availability cell for one (department,
// category) pair within an assessment. Grade is nil when Percentage is
// exactly zero, which distinguishes "no data" from a failing score.
type DepartmentScore struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	AssessmentID    string    `json:"assessment_id"    gorm:"type:char(36);not null;uniqueIndex:ux_department_score,priority:1"`
	DepartmentID    string    `json:"department_id"    gorm:"type:char(36);not null;uniqueIndex:ux_department_score,priority:2"`
	CategoryID      string    `json:"category_id"      gorm:"type:char(36);not null;uniqueIndex:ux_department_score,priority:3"`
	AvailableCount  int       `json:"available_count"  gorm:"not null"`
	TotalApplicable int       `json:"total_applicable" gorm:"not null"`
	Percentage      float64   `json:"percentage"       gorm:"not null"`
	Grade           *Grade    `json:"grade"            gorm:"type:varchar(32)"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for DepartmentScore.
func (DepartmentScore) TableName() string { return "department_scores" }

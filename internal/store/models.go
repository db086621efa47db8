package store

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StringArray is a custom type for PostgreSQL text[] arrays
type StringArray []string

// Value implements the driver.Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	if len(a) == 0 {
		return "{}", nil
	}
	// PostgreSQL array format: {item1,item2,item3}
	return "{" + strings.Join(a, ",") + "}", nil
}

// Scan implements the sql.Scanner interface for StringArray
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}

	var str string
	switch v := value.(type) {
	case []byte:
		str = string(v)
	case string:
		str = v
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}

	// Handle empty array
	str = strings.Trim(str, "{}")
	if str == "" {
		*a = []string{}
		return nil
	}

	items := strings.Split(str, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		result = append(result, strings.Trim(item, `"`))
	}
	*a = result
	return nil
}

// Account ENUMs
const (
	AccountTypeBrand      = "brand"
	AccountTypeInfluencer = "influencer"
	AccountTypeCustomer   = "customer"
	AccountTypeAdmin      = "admin"
)

// Campaign ENUMs
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusCompleted = "completed"
	CampaignStatusCancelled = "cancelled"
)

// Assignment ENUMs
const (
	AssignmentStatusPending   = "pending"
	AssignmentStatusActive    = "active"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusDeclined  = "declined"
)

// Payment ENUMs
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Account represents a platform account: brand, influencer, customer or admin
type Account struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	Name         string      `db:"name" json:"name"`
	Type         string      `db:"type" json:"type"`
	Categories   StringArray `db:"categories" json:"categories"`
	AudienceSize int64       `db:"audience_size" json:"audience_size"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// Campaign represents a brand-initiated marketing effort
type Campaign struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	BrandID   uuid.UUID  `db:"brand_id" json:"brand_id"`
	Title     string     `db:"title" json:"title"`
	Budget    float64    `db:"budget" json:"budget"`
	Status    string     `db:"status" json:"status"`
	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time `db:"end_date" json:"end_date,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Assignment represents an influencer's participation in a campaign,
// the join entity between campaigns and influencers.
type Assignment struct {
	ID             uuid.UUID `db:"id" json:"id"`
	CampaignID     uuid.UUID `db:"campaign_id" json:"campaign_id"`
	InfluencerID   uuid.UUID `db:"influencer_id" json:"influencer_id"`
	Status         string    `db:"status" json:"status"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	Progress       float64   `db:"progress" json:"progress"`
	Reach          int64     `db:"reach" json:"reach"`
	Clicks         int64     `db:"clicks" json:"clicks"`
	Conversions    int64     `db:"conversions" json:"conversions"`
	Revenue        float64   `db:"revenue" json:"revenue"`
	Spend          float64   `db:"spend" json:"spend"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Payment represents a payout from a brand to an influencer for a campaign
type Payment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	CampaignID   uuid.UUID  `db:"campaign_id" json:"campaign_id"`
	BrandID      uuid.UUID  `db:"brand_id" json:"brand_id"`
	InfluencerID uuid.UUID  `db:"influencer_id" json:"influencer_id"`
	Amount       float64    `db:"amount" json:"amount"`
	Status       string     `db:"status" json:"status"`
	Method       string     `db:"method" json:"method"`
	PaidAt       *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// StatusCount is a count of records sharing a status value
type StatusCount struct {
	Status string `db:"status" json:"status"`
	Count  int    `db:"count" json:"count"`
}

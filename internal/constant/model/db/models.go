package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a platform account in the database
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone     string    `gorm:"type:varchar(32);not null" json:"phone"`
	Role      string    `gorm:"type:varchar(32);not null" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

// Property represents a rental property in the database
type Property struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Address     string     `gorm:"type:varchar(512);not null" json:"address"`
	LandlordID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"landlord_id"`
	ManagerID   *uuid.UUID `gorm:"type:uuid;index" json:"manager_id"`
	RentAmount  float64    `gorm:"type:decimal(15,2);not null" json:"rent_amount"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}

// Tenant represents a lease in the database
type Tenant struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	LeaseStart time.Time `gorm:"not null" json:"lease_start"`
	LeaseEnd   time.Time `gorm:"not null" json:"lease_end"`
	RentAmount float64   `gorm:"type:decimal(15,2);not null" json:"rent_amount"`
	Deposit    float64   `gorm:"type:decimal(15,2);not null" json:"deposit"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return nil
}

// Payment represents a rent payment in the database.
//
// CheckoutRequestID is the gateway's correlation token: nullable until
// the push is accepted, unique forever after (Postgres unique indexes
// admit multiple NULLs).
type Payment struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID          uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	Amount            float64   `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method            string    `gorm:"type:varchar(20);not null" json:"method"`
	Status            string    `gorm:"type:varchar(20);not null;index" json:"status"`
	CheckoutRequestID *string   `gorm:"type:varchar(255);uniqueIndex" json:"checkout_request_id"`
	ResultCode        *int      `gorm:"type:int" json:"result_code"`
	ResultDescription string    `gorm:"type:varchar(512)" json:"result_description"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate is a GORM hook that runs before creating a record
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is a GORM hook that runs before updating a record
func (p *Payment) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}

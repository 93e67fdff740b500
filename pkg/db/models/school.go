package models

import (
	"time"

	"github.com/google/uuid"
)

// School is a delivery destination. Only active schools are offered to parents.
type School struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Address   *string   `gorm:"column:address"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (School) TableName() string { return "schools" }

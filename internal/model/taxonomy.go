package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity status values, compared case-insensitively
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Category represents a top-level product category
type Category struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(255);index"`
	Status    string         `json:"status" gorm:"type:varchar(20);default:'active'"`
	Image     *ImageDoc      `json:"image,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Subcategory represents a category nested under a parent category
type Subcategory struct {
	ID         string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug       string         `json:"slug" gorm:"type:varchar(255);index"`
	Status     string         `json:"status" gorm:"type:varchar(20);default:'active'"`
	CategoryID string         `json:"category_id" gorm:"type:uuid;index"`
	Image      *ImageDoc      `json:"image,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (s *Subcategory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Brand represents a product brand. Brand references use existence-only
// semantics: no status or deletion check applies when a product points at one.
type Brand struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(255);index"`
	Logo      *ImageDoc      `json:"logo,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Attribute represents a product attribute definition with its allowed values
type Attribute struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(255);index"`
	Status    string         `json:"status" gorm:"type:varchar(20);default:'active'"`
	Values    StringList     `json:"values" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (a *Attribute) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

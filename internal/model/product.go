package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents the product master data
type Product struct {
	ID                  string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name                string         `json:"name" gorm:"type:varchar(255);not null"`
	Slug                string         `json:"slug" gorm:"type:varchar(255);index"`
	Description         string         `json:"description" gorm:"type:text"`
	Price               float64        `json:"price"`
	Stock               int            `json:"stock" gorm:"default:0"`
	CategoryID          string         `json:"category_id" gorm:"type:uuid;index"`
	SubcategoryID       *string        `json:"subcategory_id,omitempty" gorm:"type:uuid"`
	BrandID             *string        `json:"brand_id,omitempty" gorm:"type:uuid"`
	Thumbnail           *ImageDoc      `json:"thumbnail,omitempty" gorm:"type:jsonb"`
	Images              ImageList      `json:"images" gorm:"type:jsonb"`
	DescriptionImages   ImageList      `json:"description_images" gorm:"type:jsonb"`
	Benefits            TextRows       `json:"benefits" gorm:"type:jsonb"`
	Precautions         TextRows       `json:"precautions" gorm:"type:jsonb"`
	Ingredients         TextRows       `json:"ingredients" gorm:"type:jsonb"`
	HowToUseSteps       TextRows       `json:"how_to_use_steps" gorm:"type:jsonb"`
	Highlights          TextRows       `json:"highlights" gorm:"type:jsonb"`
	AttributeSet        AttributeRows  `json:"attribute_set" gorm:"type:jsonb"`
	FrequentlyPurchased StringList     `json:"frequently_purchased" gorm:"type:jsonb"`
	IsTopRated          bool           `json:"is_top_rated" gorm:"default:false"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relations, loaded on request through populate
	Category    *Category    `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Subcategory *Subcategory `json:"subcategory,omitempty" gorm:"foreignKey:SubcategoryID"`
	Brand       *Brand       `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
}

// BeforeCreate assigns a storage-generated identifier
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

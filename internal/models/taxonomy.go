package models

// Technology is a curated catalog entry. Lookups are exact and
// case-sensitive; project mutations never create technologies.
type Technology struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// Tag is a free-form label, created on demand when first referenced by name.
type Tag struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	TagName string `gorm:"unique;not null" json:"tag_name"`
}

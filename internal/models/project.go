package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is a user-submitted catalog entry. Soft-deleted rows ("trashed")
// keep their associations and likes; DeletedAt is the lifecycle discriminant.
//
// Title uniqueness is scoped to (OwnerID, Title) among non-deleted rows and
// is enforced by the service layer, not by a database constraint, so a
// trashed project never blocks re-use of its title.
type Project struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"not null;index:idx_owner_title" json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	OwnerID     uint         `gorm:"not null;index:idx_owner_title" json:"owner_id"`
	Owner       User         `gorm:"foreignKey:OwnerID" json:"owner"`
	Technologies []Technology `gorm:"many2many:project_technologies" json:"technologies"`
	Tags        []Tag        `gorm:"many2many:project_tags" json:"tags"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this project (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

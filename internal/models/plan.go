package models

// Plan is a subscription tier. The pagination policy consults Plan.Name.
type Plan struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

const (
	// PlanFree is the lowest tier; listing page size is capped for its members.
	PlanFree = "Free"
	// PlanPro is the paid tier with no listing cap.
	PlanPro = "Pro"
)

package models

import (
	"time"

	"gorm.io/gorm"
)

// Project status and priority values.
const (
	ProjectStatusPlanning  = "planning"
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"

	ProjectPriorityLow    = "low"
	ProjectPriorityMedium = "medium"
	ProjectPriorityHigh   = "high"
)

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	}
	return false
}

func ValidProjectPriority(p string) bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh:
		return true
	}
	return false
}

type Project struct {
	gorm.Model

	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"not null;default:planning"`
	Priority    string `gorm:"not null;default:medium"`
	StartDate   *time.Time
	EndDate     *time.Time
	OwnerID     uint `gorm:"not null;index"`

	Owner     User              `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members   []User            `gorm:"many2many:project_members"`
	Documents []ProjectDocument `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

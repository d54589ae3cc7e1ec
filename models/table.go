package models

import "time"

type Table struct {
	ID           uint       `gorm:"primaryKey"`
	TableNumber  string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Capacity     int        `gorm:"not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'free'"`
	EngagedTime  *time.Time
	CleaningTime *time.Time
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

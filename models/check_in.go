package models

import "time"

type CheckIn struct {
	ID              uint       `gorm:"primaryKey"`
	PartySize       int        `gorm:"not null"`
	ContactNumber   string     `gorm:"type:varchar(30);not null;index"`
	HasSeniors      bool       `gorm:"not null;default:false"`
	SeniorCount     int        `gorm:"not null;default:0"`
	QueuePosition   int        `gorm:"not null;default:0;index"`
	Status          string     `gorm:"type:varchar(20);not null;default:'waiting';index"`
	AssignedTableID *uint      `gorm:"index"`
	AssignedTable   *Table     `gorm:"foreignKey:AssignedTableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CheckInTime     time.Time  `gorm:"not null"`
	SeatedTime      *time.Time
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

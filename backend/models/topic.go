package models

import "time"

type TopicStatus string

const (
	StatusUnanswered TopicStatus = "NAO_RESPONDIDO"
	StatusUnsolved   TopicStatus = "NAO_SOLUCIONADO"
	StatusSolved     TopicStatus = "SOLUCIONADO"
	StatusClosed     TopicStatus = "FECHADO"
)

type Topic struct {
	ID        uint        `gorm:"primaryKey"`
	Title     string      `gorm:"not null"`
	Message   string      `gorm:"not null"`
	CreatedAt time.Time   `gorm:"index"`
	Status    TopicStatus `gorm:"type:varchar(20);not null;default:NAO_RESPONDIDO"`
	AuthorID  *uint
	Author    *User
	CourseID  uint `gorm:"not null;index"`
	Course    Course
	Answers   []Answer
}

type Answer struct {
	ID        uint   `gorm:"primaryKey"`
	Message   string `gorm:"not null"`
	TopicID   uint   `gorm:"not null;index"`
	CreatedAt time.Time
	AuthorID  *uint
	Author    *User
	Solution  bool `gorm:"not null;default:false"`
}

// AuthorName returns the author's name, or an empty string for topics
// without an author.
func (t *Topic) AuthorName() string {
	if t.Author == nil {
		return ""
	}
	return t.Author.Name
}

func (a *Answer) AuthorName() string {
	if a.Author == nil {
		return ""
	}
	return a.Author.Name
}

// model/lesson.go
package model

import (
	"encoding/json"
	"time"
)

// Module groups lessons into a course unit (e.g. "Rhythm Basics")
type Module struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Order       int       `json:"order" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lesson represents an immutable unit of learning content. Once loaded it is
// never mutated; the loader caches it by ID.
type Lesson struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	ModuleID    string          `json:"module_id" gorm:"not null"`
	Title       string          `json:"title" gorm:"not null"`
	Order       int             `json:"order" gorm:"not null"` // Lesson order within module
	Description string          `json:"description" gorm:"type:text"`
	Items       json.RawMessage `json:"items" gorm:"type:text"` // JSON array of LessonItem
	Version     int             `json:"version" gorm:"default:1"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationship
	Module Module `json:"module" gorm:"foreignKey:ModuleID"`
}

// LessonItem is the authored form of a piece of lesson content, stored as raw
// JSON inside a Lesson.
type LessonItem struct {
	Kind        string      `json:"kind"` // content, quiz, practice, video, audio
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Options     []string    `json:"options,omitempty"`
	Answer      interface{} `json:"answer,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	MediaKey    string      `json:"media_key,omitempty"` // object key in the media bucket
	Points      int         `json:"points"`
	Difficulty  string      `json:"difficulty,omitempty"` // beginner, intermediate, advanced
}

// LessonStep is the uniform read-only projection of lesson content that the
// progress tracker walks. Steps are regenerated from the Lesson on every
// request and never persisted.
type LessonStep struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"` // introduction, content, quiz, practice, summary, video, audio
	Title       string      `json:"title"`
	Body        string      `json:"body"`
	Options     []string    `json:"options,omitempty"`
	Answer      interface{} `json:"-"` // never serialized to clients
	Explanation string      `json:"explanation,omitempty"`
	MediaKey    string      `json:"media_key,omitempty"`
	Interactive bool        `json:"interactive"`
	Points      int         `json:"points"`
	Difficulty  string      `json:"difficulty,omitempty"`
}

package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is a normalized (lowercase) label shared by every note that uses it.
type Tag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NoteTag is a row of the note/tag join table.
type NoteTag struct {
	NoteID uuid.UUID `gorm:"type:uuid;primaryKey" json:"note_id"`
	TagID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tag_id"`
}

func (NoteTag) TableName() string {
	return "notes_tags"
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notesai/notesai/database"
	"notesai/notesai/models"
)

// MaxTagsPerNote bounds the tag list accepted on a single note.
const MaxTagsPerNote = 10

// TagListerInterface is the read side used by the tags endpoint.
type TagListerInterface interface {
	ListUserTags(db *database.Database, userID string) ([]string, error)
}

type TagServiceInterface interface {
	TagListerInterface
	ResolveTag(tx *gorm.DB, name string) (models.Tag, error)
	SyncNoteTags(tx *gorm.DB, noteID uuid.UUID, names []string) ([]string, error)
	GetTagsForNotes(db *database.Database, noteIDs []uuid.UUID) (map[uuid.UUID][]string, error)
}

type TagService struct{}

// NormalizeTags lowercases and trims names, drops blanks and duplicates while
// keeping the first occurrence order.
func NormalizeTags(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	if len(normalized) > MaxTagsPerNote {
		return nil, fmt.Errorf("%w: at most %d tags per note", ErrTooManyTags, MaxTagsPerNote)
	}
	return normalized, nil
}

// ResolveTag returns the tag row for name, inserting it when absent. name
// must already be normalized.
func (s *TagService) ResolveTag(tx *gorm.DB, name string) (models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, err
	}

	tag = models.Tag{Name: name}
	if err := tx.Create(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// SyncNoteTags replaces every association of the note with the given names.
// It returns the normalized names that were stored.
func (s *TagService) SyncNoteTags(tx *gorm.DB, noteID uuid.UUID, names []string) ([]string, error) {
	normalized, err := NormalizeTags(names)
	if err != nil {
		return nil, err
	}

	if err := tx.Where("note_id = ?", noteID).Delete(&models.NoteTag{}).Error; err != nil {
		return nil, err
	}

	for _, name := range normalized {
		tag, err := s.ResolveTag(tx, name)
		if err != nil {
			return nil, err
		}
		if err := tx.Create(&models.NoteTag{NoteID: noteID, TagID: tag.ID}).Error; err != nil {
			return nil, err
		}
	}

	return normalized, nil
}

type noteTagName struct {
	NoteID uuid.UUID
	Name   string
}

func (s *TagService) GetTagsForNotes(db *database.Database, noteIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	result := make(map[uuid.UUID][]string, len(noteIDs))
	if len(noteIDs) == 0 {
		return result, nil
	}

	var rows []noteTagName
	err := db.DB.Table("notes_tags").
		Select("notes_tags.note_id AS note_id, tags.name AS name").
		Joins("JOIN tags ON tags.id = notes_tags.tag_id").
		Where("notes_tags.note_id IN ?", noteIDs).
		Order("tags.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.NoteID] = append(result[row.NoteID], row.Name)
	}
	return result, nil
}

// ListUserTags returns the distinct tag names used on the user's notes.
func (s *TagService) ListUserTags(db *database.Database, userID string) ([]string, error) {
	var names []string
	err := db.DB.Table("tags").
		Distinct("tags.name").
		Joins("JOIN notes_tags ON notes_tags.tag_id = tags.id").
		Joins("JOIN notes ON notes.id = notes_tags.note_id").
		Where("notes.user_id = ?", userID).
		Pluck("tags.name", &names).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func NewTagService() TagServiceInterface {
	return &TagService{}
}

var TagServiceInstance TagServiceInterface = NewTagService()

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"notesai/notesai/broker"
	"notesai/notesai/database"
	"notesai/notesai/models"
	"notesai/notesai/utils/notecontent"
)

type NoteServiceInterface interface {
	CreateNote(db *database.Database, userID string, noteData map[string]interface{}) (models.Note, error)
	GetNoteById(db *database.Database, userID string, id string) (models.Note, error)
	UpdateNote(db *database.Database, userID string, id string, updatedData map[string]interface{}) (models.Note, error)
	DeleteNote(db *database.Database, userID string, id string) error
	ListNotes(db *database.Database, userID string, query models.NoteQuery) ([]models.Note, error)
	ApplySummary(db *database.Database, userID string, id string, summary string) (models.Note, error)
	SummarizeNote(ctx context.Context, db *database.Database, userID string, id string) (string, models.Note, error)
}

type NoteService struct {
	tags       TagServiceInterface
	summarizer Summarizer
}

// NewNoteService creates a new instance of NoteService
func NewNoteService(tags TagServiceInterface, summarizer Summarizer) *NoteService {
	return &NoteService{tags: tags, summarizer: summarizer}
}

func (s *NoteService) CreateNote(db *database.Database, userID string, noteData map[string]interface{}) (models.Note, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return models.Note{}, ErrUnauthorized
	}

	title, ok := noteData["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return models.Note{}, ErrTitleRequired
	}

	content, _, err := optionalString(noteData, "content")
	if err != nil {
		return models.Note{}, err
	}

	// a marker already in the content is the note's metadata unless overridden
	base := notecontent.DefaultMetadata()
	if notecontent.HasMetadata(content) {
		base, _ = notecontent.Decode(content)
	}
	meta, _, err := metadataFromInput(noteData, base)
	if err != nil {
		return models.Note{}, err
	}

	tagNames, _, err := optionalStrings(noteData, "tags")
	if err != nil {
		return models.Note{}, err
	}
	if _, err := NormalizeTags(tagNames); err != nil {
		return models.Note{}, err
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note := models.Note{
		ID:      uuid.New(),
		UserID:  ownerID,
		Title:   title,
		Content: notecontent.WithMetadata(content, meta),
	}

	if err := tx.Create(&note).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	note.Tags, err = s.tags.SyncNoteTags(tx, note.ID, tagNames)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := createNoteEvent(tx, broker.NoteCreated, "create", note); err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	return note, nil
}

func (s *NoteService) GetNoteById(db *database.Database, userID string, id string) (models.Note, error) {
	note, err := findNote(db.DB, userID, id)
	if err != nil {
		return models.Note{}, err
	}

	tags, err := s.tags.GetTagsForNotes(db, []uuid.UUID{note.ID})
	if err != nil {
		return models.Note{}, err
	}
	note.Tags = tagsOrEmpty(tags[note.ID])
	return note, nil
}

// UpdateNote applies the provided fields. Tags are replaced only when the
// update carries a tag list.
func (s *NoteService) UpdateNote(db *database.Database, userID string, id string, updatedData map[string]interface{}) (models.Note, error) {
	title, hasTitle, err := optionalString(updatedData, "title")
	if err != nil {
		return models.Note{}, err
	}
	if hasTitle && strings.TrimSpace(title) == "" {
		return models.Note{}, ErrTitleRequired
	}

	content, hasContent, err := optionalString(updatedData, "content")
	if err != nil {
		return models.Note{}, err
	}

	tagNames, hasTags, err := optionalStrings(updatedData, "tags")
	if err != nil {
		return models.Note{}, err
	}
	if hasTags {
		if _, err := NormalizeTags(tagNames); err != nil {
			return models.Note{}, err
		}
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := findNote(tx, userID, id)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if hasTitle {
		note.Title = title
	}

	current, _ := notecontent.Decode(note.Content)
	if hasContent {
		note.Content = content
		if notecontent.HasMetadata(content) {
			current, _ = notecontent.Decode(content)
		}
	}

	meta, hasMeta, err := metadataFromInput(updatedData, current)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}
	if hasContent || hasMeta {
		note.Content = notecontent.WithMetadata(note.Content, meta)
	}

	note.UpdatedAt = time.Now().UTC()
	if err := tx.Model(&note).Updates(map[string]interface{}{
		"title":      note.Title,
		"content":    note.Content,
		"updated_at": note.UpdatedAt,
	}).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if hasTags {
		note.Tags, err = s.tags.SyncNoteTags(tx, note.ID, tagNames)
		if err != nil {
			tx.Rollback()
			return models.Note{}, err
		}
	}

	if err := createNoteEvent(tx, broker.NoteUpdated, "update", note); err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if !hasTags {
		tags, err := s.tags.GetTagsForNotes(db, []uuid.UUID{note.ID})
		if err != nil {
			return models.Note{}, err
		}
		note.Tags = tagsOrEmpty(tags[note.ID])
	}

	return note, nil
}

func (s *NoteService) DeleteNote(db *database.Database, userID string, id string) error {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	note, err := findNote(tx, userID, id)
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteTag{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&note).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := createNoteEvent(tx, broker.NoteDeleted, "delete", note); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

func (s *NoteService) ListNotes(db *database.Database, userID string, query models.NoteQuery) ([]models.Note, error) {
	var notes []models.Note
	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
	}

	tags, err := s.tags.GetTagsForNotes(db, ids)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].Tags = tagsOrEmpty(tags[notes[i].ID])
	}

	return query.Apply(notes), nil
}

// ApplySummary stores summary in the note's summary section, replacing any
// previous one.
func (s *NoteService) ApplySummary(db *database.Database, userID string, id string, summary string) (models.Note, error) {
	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Note{}, tx.Error
	}

	note, err := findNote(tx, userID, id)
	if err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	note.Content = notecontent.ApplySummary(note.Content, summary)
	note.UpdatedAt = time.Now().UTC()
	if err := tx.Model(&note).Updates(map[string]interface{}{
		"content":    note.Content,
		"updated_at": note.UpdatedAt,
	}).Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := createNoteEvent(tx, broker.NoteSummarized, "update", note); err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Note{}, err
	}

	tags, err := s.tags.GetTagsForNotes(db, []uuid.UUID{note.ID})
	if err != nil {
		return models.Note{}, err
	}
	note.Tags = tagsOrEmpty(tags[note.ID])
	return note, nil
}

// SummarizeNote summarizes the note body, without its marker or previous
// summary, and stores the result on the note.
func (s *NoteService) SummarizeNote(ctx context.Context, db *database.Database, userID string, id string) (string, models.Note, error) {
	note, err := findNote(db.DB, userID, id)
	if err != nil {
		return "", models.Note{}, err
	}

	_, body := notecontent.Decode(note.Content)
	body = strings.TrimSpace(notecontent.StripSummary(body))
	if notecontent.PlainText(body) == "" {
		return "", models.Note{}, ErrEmptyContent
	}

	summary := s.summarizer.Summarize(ctx, body)

	updated, err := s.ApplySummary(db, userID, id, summary)
	if err != nil {
		return "", models.Note{}, err
	}
	return summary, updated, nil
}

func findNote(db *gorm.DB, userID string, id string) (models.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Note{}, ErrNoteNotFound
	}

	var note models.Note
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Note{}, ErrNoteNotFound
		}
		return models.Note{}, err
	}
	return note, nil
}

func createNoteEvent(tx *gorm.DB, eventType broker.EventType, operation string, note models.Note) error {
	event, err := models.NewEvent(
		string(eventType),
		"note",
		operation,
		note.UserID.String(),
		map[string]interface{}{
			"note_id":    note.ID.String(),
			"user_id":    note.UserID.String(),
			"title":      note.Title,
			"tags":       tagsOrEmpty(note.Tags),
			"updated_at": note.UpdatedAt,
		},
	)
	if err != nil {
		return err
	}
	return tx.Create(event).Error
}

func metadataFromInput(data map[string]interface{}, base notecontent.Metadata) (notecontent.Metadata, bool, error) {
	color, hasColor, err := optionalString(data, "color")
	if err != nil {
		return base, false, err
	}
	style, hasStyle, err := optionalString(data, "style")
	if err != nil {
		return base, false, err
	}

	meta := base
	if hasColor && color != "" {
		meta.Color = color
	}
	if hasStyle && style != "" {
		meta.Style = style
	}
	if err := meta.Validate(); err != nil {
		return base, false, err
	}
	return meta.WithDefaults(), hasColor || hasStyle, nil
}

func optionalString(data map[string]interface{}, key string) (string, bool, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s must be a string", ErrInvalidInput, key)
	}
	return value, true, nil
}

func optionalStrings(data map[string]interface{}, key string) ([]string, bool, error) {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil, false, nil
	}

	switch values := raw.(type) {
	case []string:
		return values, true, nil
	case []interface{}:
		result := make([]string, 0, len(values))
		for _, v := range values {
			str, ok := v.(string)
			if !ok {
				return nil, false, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidInput, key)
			}
			result = append(result, str)
		}
		return result, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %s must be a list of strings", ErrInvalidInput, key)
	}
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Don't initialize here, will be set properly in main.go
var NoteServiceInstance NoteServiceInterface

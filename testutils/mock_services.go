package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"notesai/notesai/database"
	"notesai/notesai/models"
	"notesai/notesai/utils/token"
)

// MockNoteService mocks the NoteServiceInterface for testing
type MockNoteService struct {
	mock.Mock
}

func (m *MockNoteService) CreateNote(db *database.Database, userID string, noteData map[string]interface{}) (models.Note, error) {
	args := m.Called(db, userID, noteData)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) GetNoteById(db *database.Database, userID string, id string) (models.Note, error) {
	args := m.Called(db, userID, id)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) UpdateNote(db *database.Database, userID string, id string, updatedData map[string]interface{}) (models.Note, error) {
	args := m.Called(db, userID, id, updatedData)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) DeleteNote(db *database.Database, userID string, id string) error {
	args := m.Called(db, userID, id)
	return args.Error(0)
}

func (m *MockNoteService) ListNotes(db *database.Database, userID string, query models.NoteQuery) ([]models.Note, error) {
	args := m.Called(db, userID, query)
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteService) ApplySummary(db *database.Database, userID string, id string, summary string) (models.Note, error) {
	args := m.Called(db, userID, id, summary)
	return args.Get(0).(models.Note), args.Error(1)
}

func (m *MockNoteService) SummarizeNote(ctx context.Context, db *database.Database, userID string, id string) (string, models.Note, error) {
	args := m.Called(ctx, db, userID, id)
	return args.String(0), args.Get(1).(models.Note), args.Error(2)
}

// MockUserService mocks the UserServiceInterface for testing
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(db *database.Database, user models.User) (models.User, error) {
	args := m.Called(db, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUserById(db *database.Database, id string) (models.User, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(db *database.Database, email string) (models.User, error) {
	args := m.Called(db, email)
	return args.Get(0).(models.User), args.Error(1)
}

// MockAuthService mocks the AuthServiceInterface for testing
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(db *database.Database, email, password string) (models.User, error) {
	args := m.Called(db, email, password)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) Login(db *database.Database, email, password string) (string, error) {
	args := m.Called(db, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*token.JWTClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*token.JWTClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// MockSummaryService mocks the SummaryServiceInterface for testing
type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summarize(ctx context.Context, text string) string {
	args := m.Called(ctx, text)
	return args.String(0)
}

func (m *MockSummaryService) Generate(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func (m *MockSummaryService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockTagService mocks the TagServiceInterface methods used by routes
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) ListUserTags(db *database.Database, userID string) ([]string, error) {
	args := m.Called(db, userID)
	return args.Get(0).([]string), args.Error(1)
}

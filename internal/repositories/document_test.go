package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"talentscope/cs-evaluator/internal/models"
)

const selectDocument = `SELECT \* FROM "documents" WHERE id = \$1`

func newMockRepository(t *testing.T) (DocumentRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewDocumentRepository(db), mock
}

func TestDocumentRepository_FindByID(t *testing.T) {
	repo, mock := newMockRepository(t)

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "filename", "original_file_name", "file_type", "file_path", "created_at", "updated_at"}).
		AddRow(id.String(), "resume_x.pdf", "cv.pdf", models.FileTypeResume, "uploads/resume_x.pdf", now, now)
	mock.ExpectQuery(selectDocument).WillReturnRows(rows)

	doc, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "cv.pdf", doc.OriginalFileName)
	assert.Equal(t, "uploads/resume_x.pdf", doc.FilePath)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_FindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(selectDocument).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_FindByIDQueryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(selectDocument).WillReturnError(errors.New("connection reset"))

	_, err := repo.FindByID(uuid.New())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDocumentNotFound))
	assert.Contains(t, err.Error(), "failed to find document")
}

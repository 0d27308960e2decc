package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/repository"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/storage"
)

type mockStudentRepo struct {
	createParams *repository.CreateStudentParams
	createErr    error
	updateParams *repository.StudentUpdate
	detail       *models.StudentDetail
	documents    []models.Document
	deletedID    int64
}

func (m *mockStudentRepo) Create(ctx context.Context, params repository.CreateStudentParams) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.createParams = &params
	return 9, nil
}

func (m *mockStudentRepo) Update(ctx context.Context, id int64, upd repository.StudentUpdate) error {
	m.updateParams = &upd
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	m.deletedID = id
	return nil
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	if m.detail == nil {
		return nil, 0, nil
	}
	return []models.StudentDetail{*m.detail}, 1, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.StudentDetail, error) {
	if m.detail == nil {
		return &models.StudentDetail{ID: id, Status: models.StudentPending}, nil
	}
	return m.detail, nil
}

func (m *mockStudentRepo) Counts(ctx context.Context) (*models.StudentStatusCounts, error) {
	return &models.StudentStatusCounts{Total: 1, Pending: 1}, nil
}

func (m *mockStudentRepo) ListDocuments(ctx context.Context, studentID int64) ([]models.Document, error) {
	return m.documents, nil
}

func (m *mockStudentRepo) FindDocument(ctx context.Context, id int64) (*models.Document, error) {
	for i := range m.documents {
		if m.documents[i].ID == id {
			return &m.documents[i], nil
		}
	}
	return nil, errors.New("not found")
}

type mockAudit struct {
	logs []*models.AuditLog
}

func (m *mockAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newStudentService(t *testing.T, repo *mockStudentRepo) (*StudentService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return NewStudentService(repo, &mockAudit{}, store, nil, nil, 0), dir
}

func TestRegisterStoresFilesAndMapsDocumentNames(t *testing.T) {
	repo := &mockStudentRepo{}
	svc, dir := newStudentService(t, repo)

	strand := "STEM"
	_, err := svc.Register(context.Background(), 4, RegisterStudentRequest{
		Person:      models.PersonFields{FirstName: "Juan", LastName: "Dela Cruz"},
		StrandName:  &strand,
		StudentType: models.TypeNew,
	}, []DocumentUpload{
		{Name: "PSA Birth Certificate", Content: strings.NewReader("pdf bytes")},
		{Name: "report-card.pdf", Content: strings.NewReader("more bytes")},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.createParams)
	require.Len(t, repo.createParams.Documents, 2)
	assert.Equal(t, models.DocPSABirth, repo.createParams.Documents[0].DocType)
	assert.Equal(t, models.DocOthers, repo.createParams.Documents[1].DocType)

	for _, doc := range repo.createParams.Documents {
		_, statErr := os.Stat(filepath.Join(dir, doc.FilePath))
		assert.NoError(t, statErr)
	}
}

func TestRegisterCleansUpFilesWhenCreateFails(t *testing.T) {
	repo := &mockStudentRepo{createErr: errors.New("insert failed")}
	svc, dir := newStudentService(t, repo)

	_, err := svc.Register(context.Background(), 4, RegisterStudentRequest{
		Person:      models.PersonFields{FirstName: "Juan", LastName: "Dela Cruz"},
		StudentType: models.TypeNew,
	}, []DocumentUpload{
		{Name: "2x2 ID Pictures", Content: strings.NewReader("jpg bytes")},
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRegisterRejectsUnknownStudentType(t *testing.T) {
	repo := &mockStudentRepo{}
	svc, _ := newStudentService(t, repo)

	_, err := svc.Register(context.Background(), 4, RegisterStudentRequest{
		Person:      models.PersonFields{FirstName: "Juan", LastName: "Dela Cruz"},
		StudentType: "irregular",
	}, nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsKind(err, appErrors.ErrValidation))
	assert.Nil(t, repo.createParams)
}

func TestUpdatePassesOnlyProvidedFields(t *testing.T) {
	repo := &mockStudentRepo{}
	svc, _ := newStudentService(t, repo)

	status := models.StudentEnrolled
	err := svc.Update(context.Background(), 4, 9, UpdateStudentRequest{Status: &status})
	require.NoError(t, err)

	require.NotNil(t, repo.updateParams)
	assert.Nil(t, repo.updateParams.FirstName)
	assert.Nil(t, repo.updateParams.Email)
	require.NotNil(t, repo.updateParams.Status)
	assert.Equal(t, models.StudentEnrolled, *repo.updateParams.Status)
}

func TestDeleteRemovesStoredDocuments(t *testing.T) {
	repo := &mockStudentRepo{}
	svc, dir := newStudentService(t, repo)

	path := "STEM_doc.pdf"
	require.NoError(t, os.WriteFile(filepath.Join(dir, path), []byte("bytes"), 0o644))
	studentID := int64(9)
	repo.documents = []models.Document{{ID: 1, StudentID: &studentID, FilePath: path}}

	err := svc.Delete(context.Background(), 4, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), repo.deletedID)

	_, statErr := os.Stat(filepath.Join(dir, path))
	assert.True(t, os.IsNotExist(statErr))
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bgarcia-dev/shs-registrar-api/internal/models"
	"github.com/bgarcia-dev/shs-registrar-api/internal/repository"
	appErrors "github.com/bgarcia-dev/shs-registrar-api/pkg/errors"
	"github.com/bgarcia-dev/shs-registrar-api/pkg/storage"
)

type studentRepository interface {
	Create(ctx context.Context, params repository.CreateStudentParams) (int64, error)
	Update(ctx context.Context, studentID int64, upd repository.StudentUpdate) error
	Delete(ctx context.Context, studentID int64) error
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.StudentDetail, error)
	Counts(ctx context.Context) (*models.StudentStatusCounts, error)
	ListDocuments(ctx context.Context, studentID int64) ([]models.Document, error)
	FindDocument(ctx context.Context, id int64) (*models.Document, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// DocumentUpload pairs a document's display name with its file content.
type DocumentUpload struct {
	Name    string
	Content io.Reader
	Notes   *string
}

// RegisterStudentRequest is the payload for registering a new student.
type RegisterStudentRequest struct {
	Person         models.PersonFields `json:"person" validate:"required"`
	StrandName     *string             `json:"strand"`
	GradeLevelName *string             `json:"grade_level"`
	StudentType    models.StudentType  `json:"student_type" validate:"required,oneof=new returnee als pept transferee"`
}

// UpdateStudentRequest carries a joined partial update for a student.
type UpdateStudentRequest struct {
	FirstName   *string               `json:"first_name"`
	MiddleName  *string               `json:"middle_name"`
	LastName    *string               `json:"last_name"`
	Email       *string               `json:"email" validate:"omitempty,email"`
	PhoneNumber *string               `json:"phone_number"`
	Address     *string               `json:"address"`
	Status      *models.StudentStatus `json:"status" validate:"omitempty,oneof=enrolled pending cancelled"`
}

// StudentService provides enrollment use cases.
type StudentService struct {
	repo         studentRepository
	audit        auditWriter
	store        *storage.LocalStorage
	validator    *validator.Validate
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, audit auditWriter, store *storage.LocalStorage, validate *validator.Validate, logger *zap.Logger, queryTimeout time.Duration) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}
	return &StudentService{repo: repo, audit: audit, store: store, validator: validate, logger: logger, queryTimeout: queryTimeout}
}

// Register stores a new student with uploaded documents. Files land on disk
// first; the person, student and document rows then commit together, so a
// database failure never leaves a half-registered student. The new record
// always starts pending regardless of what the caller sends.
func (s *StudentService) Register(ctx context.Context, actorID int64, req RegisterStudentRequest, uploads []DocumentUpload) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	var docs []repository.DocumentParams
	var stored []string
	for _, upload := range uploads {
		docType := models.MapDocumentName(upload.Name)
		filename := storage.DocumentFilename(string(docType), upload.Name)
		path, err := s.store.SaveStream(filename, upload.Content)
		if err != nil {
			s.cleanupFiles(stored)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store document")
		}
		stored = append(stored, path)
		docs = append(docs, repository.DocumentParams{DocType: docType, FilePath: path, Notes: upload.Notes})
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	studentID, err := s.repo.Create(ctx, repository.CreateStudentParams{
		Person:         req.Person,
		StrandName:     req.StrandName,
		GradeLevelName: req.GradeLevelName,
		StudentType:    req.StudentType,
		CreatedBy:      &actorID,
		Documents:      docs,
	})
	if err != nil {
		s.cleanupFiles(stored)
		return nil, appErrors.FromDBError(err, "failed to register student")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionStudentCreate,
		ObjectID: &studentID,
	}); err != nil {
		s.logger.Warn("failed to record student audit log", zap.Error(err))
	}

	s.logger.Info("student registered",
		zap.Int64("student_id", studentID),
		zap.Int("documents", len(docs)))

	detail, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to load registered student")
	}
	return detail, nil
}

// Get returns a student detail by identifier.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.StudentDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.FromDBError(err, "failed to fetch student")
	}
	return detail, nil
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.FromDBError(err, "failed to list students")
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Update applies a joined partial update to a student and their person record.
func (s *StudentService) Update(ctx context.Context, actorID, id int64, req UpdateStudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student update")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	err := s.repo.Update(ctx, id, repository.StudentUpdate{
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Status:      req.Status,
	})
	if err != nil {
		return appErrors.FromDBError(err, "failed to update student")
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionStudentUpdate,
		ObjectID: &id,
	}); err != nil {
		s.logger.Warn("failed to record student audit log", zap.Error(err))
	}
	return nil
}

// Delete removes a student record. Documents on disk are removed best-effort
// after the row is gone; the shared person record is kept.
func (s *StudentService) Delete(ctx context.Context, actorID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	docs, err := s.repo.ListDocuments(ctx, id)
	if err != nil {
		return appErrors.FromDBError(err, "failed to list student documents")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromDBError(err, "failed to delete student")
	}

	for _, doc := range docs {
		if err := s.store.Delete(doc.FilePath); err != nil {
			s.logger.Warn("failed to remove document file", zap.String("path", doc.FilePath), zap.Error(err))
		}
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actorID,
		Action:   models.AuditActionStudentDelete,
		ObjectID: &id,
	}); err != nil {
		s.logger.Warn("failed to record student audit log", zap.Error(err))
	}
	return nil
}

// Counts returns enrollment aggregates by status.
func (s *StudentService) Counts(ctx context.Context) (*models.StudentStatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to count students")
	}
	return counts, nil
}

// Documents lists the stored attachments for a student.
func (s *StudentService) Documents(ctx context.Context, studentID int64) ([]models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	docs, err := s.repo.ListDocuments(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromDBError(err, "failed to list documents")
	}
	return docs, nil
}

// Document fetches a single attachment record.
func (s *StudentService) Document(ctx context.Context, id int64) (*models.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	doc, err := s.repo.FindDocument(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.FromDBError(err, "failed to fetch document")
	}
	return doc, nil
}

func (s *StudentService) cleanupFiles(paths []string) {
	for _, path := range paths {
		if err := s.store.Delete(path); err != nil {
			s.logger.Warn("failed to clean up document file", zap.String("path", path), zap.Error(err))
		}
	}
}

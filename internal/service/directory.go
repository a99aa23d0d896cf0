package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/models"
)

var ErrSearchDisabled = errors.New("student search is not configured")

type DirectoryStore interface {
	ListStudents(ctx context.Context, department *string) ([]models.Student, error)
	ListTimetable(ctx context.Context) ([]models.TimetableEntry, error)
}

type StudentSearcher interface {
	SearchStudents(ctx context.Context, query string, department *string, from, size int) (int64, []models.Student, error)
}

// Viewer is the subset of token claims the directory scopes by.
type Viewer struct {
	Username   string
	Role       models.Role
	Department *string
}

type DirectoryService struct {
	Store  DirectoryStore
	Search StudentSearcher
}

// departmentScope narrows a HOD to their own department. Principals and class
// teachers see every student.
func departmentScope(v Viewer) *string {
	if v.Role == models.RoleHOD && v.Department != nil && *v.Department != "" {
		return v.Department
	}
	return nil
}

func (s *DirectoryService) Students(ctx context.Context, v Viewer) ([]models.Student, error) {
	students, err := s.Store.ListStudents(ctx, departmentScope(v))
	if err != nil {
		logging.FromContext(ctx).Error("list_students_failed", "status", 503, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return students, nil
}

func (s *DirectoryService) Timetable(ctx context.Context) ([]models.TimetableEntry, error) {
	entries, err := s.Store.ListTimetable(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_timetable_failed", "status", 503, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return entries, nil
}

type SearchResult struct {
	Total    int64
	Students []models.Student
}

func (s *DirectoryService) SearchStudents(ctx context.Context, v Viewer, query string, from, size int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrValidation)
	}
	if s.Search == nil {
		return nil, ErrSearchDisabled
	}
	total, students, err := s.Search.SearchStudents(ctx, query, departmentScope(v), from, size)
	if err != nil {
		logging.FromContext(ctx).Error("search_students_failed", "status", 503, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &SearchResult{Total: total, Students: students}, nil
}

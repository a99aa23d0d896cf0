package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/netra/internal/models"
)

// ListStudents returns students ordered by roll number. A nil department
// means every department.
func (r *GormRepo) ListStudents(ctx context.Context, department *string) ([]models.Student, error) {
	students := make([]models.Student, 0)
	tx := r.DB.WithContext(ctx).Order("roll_no")
	if department != nil {
		tx = tx.Where("department = ?", *department)
	}
	if err := tx.Find(&students).Error; err != nil {
		return nil, storageErr("list students", err)
	}
	return students, nil
}

func (r *GormRepo) ListTimetable(ctx context.Context) ([]models.TimetableEntry, error) {
	entries := make([]models.TimetableEntry, 0)
	if err := r.DB.WithContext(ctx).Order("class_name, day, time_slot").Find(&entries).Error; err != nil {
		return nil, storageErr("list timetable", err)
	}
	return entries, nil
}

func (r *GormRepo) UpsertStudent(ctx context.Context, s *models.Student) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "roll_no"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "student_class", "parent_phone", "department"}),
	}).Create(s).Error
	if err != nil {
		return storageErr("upsert student", err)
	}
	return nil
}

func (r *GormRepo) UpsertTimetableEntry(ctx context.Context, e *models.TimetableEntry) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "class_name"}, {Name: "day"}, {Name: "time_slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject"}),
	}).Create(e).Error
	if err != nil {
		return storageErr("upsert timetable entry", err)
	}
	return nil
}

// Package seed loads users, students and timetable rows from a YAML file.
// HTTP handlers never write; this is the only way rows get into the store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/netra/internal/hash"
	"github.com/Skotchmaster/netra/internal/logging"
	"github.com/Skotchmaster/netra/internal/models"
	"github.com/Skotchmaster/netra/internal/repo"
)

var ErrInvalidFile = errors.New("invalid seed file")

type User struct {
	Username      string  `yaml:"username"`
	Password      string  `yaml:"password"`
	Role          string  `yaml:"role"`
	FullName      string  `yaml:"full_name"`
	Department    *string `yaml:"department"`
	AssignedClass *string `yaml:"assigned_class"`
}

type Student struct {
	RollNo       string  `yaml:"roll_no"`
	Name         string  `yaml:"name"`
	StudentClass string  `yaml:"student_class"`
	ParentPhone  string  `yaml:"parent_phone"`
	Department   *string `yaml:"department"`
}

type TimetableEntry struct {
	ClassName string `yaml:"class_name"`
	Day       string `yaml:"day"`
	TimeSlot  string `yaml:"time_slot"`
	Subject   string `yaml:"subject"`
}

type File struct {
	Users     []User           `yaml:"users"`
	Students  []Student        `yaml:"students"`
	Timetable []TimetableEntry `yaml:"timetable"`
}

// Parse decodes a seed document. Unknown keys are rejected so that typos
// do not silently drop data.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh)
}

func (f *File) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidFile}, args...)...))
	}

	usernames := make(map[string]struct{}, len(f.Users))
	for i, u := range f.Users {
		if u.Username == "" {
			bad("users[%d]: username is required", i)
			continue
		}
		if _, dup := usernames[u.Username]; dup {
			bad("users[%d]: duplicate username %q", i, u.Username)
		}
		usernames[u.Username] = struct{}{}
		if u.Password == "" {
			bad("users[%d] %s: password is required", i, u.Username)
		}
		if !models.Role(u.Role).Valid() {
			bad("users[%d] %s: unknown role %q", i, u.Username, u.Role)
		}
		if u.FullName == "" {
			bad("users[%d] %s: full_name is required", i, u.Username)
		}
	}

	rolls := make(map[string]struct{}, len(f.Students))
	for i, s := range f.Students {
		if s.RollNo == "" || s.Name == "" || s.StudentClass == "" {
			bad("students[%d]: roll_no, name and student_class are required", i)
			continue
		}
		if _, dup := rolls[s.RollNo]; dup {
			bad("students[%d]: duplicate roll_no %q", i, s.RollNo)
		}
		rolls[s.RollNo] = struct{}{}
	}

	type slot struct{ class, day, time string }
	slots := make(map[slot]struct{}, len(f.Timetable))
	for i, e := range f.Timetable {
		if e.ClassName == "" || e.Day == "" || e.TimeSlot == "" || e.Subject == "" {
			bad("timetable[%d]: class_name, day, time_slot and subject are required", i)
			continue
		}
		k := slot{e.ClassName, e.Day, e.TimeSlot}
		if _, dup := slots[k]; dup {
			bad("timetable[%d]: duplicate slot %s/%s/%s", i, e.ClassName, e.Day, e.TimeSlot)
		}
		slots[k] = struct{}{}
	}

	return errors.Join(errs...)
}

type StudentIndexer interface {
	IndexStudents(ctx context.Context, students []models.Student) error
}

type Importer struct {
	Repo    *repo.GormRepo
	Hasher  *hash.Hasher
	Indexer StudentIndexer
}

type Summary struct {
	Users     int
	Students  int
	Timetable int
	Indexed   int
}

// Import upserts every row in one transaction, then indexes the students for
// search when an indexer is configured. Passwords are hashed before the
// transaction starts.
func (im *Importer) Import(ctx context.Context, f *File) (Summary, error) {
	l := logging.FromContext(ctx).With("svc", "seed.import")

	users := make([]models.User, 0, len(f.Users))
	for _, u := range f.Users {
		hashed, err := im.Hasher.HashPassword(u.Password)
		if err != nil {
			return Summary{}, fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		users = append(users, models.User{
			Username:      u.Username,
			PasswordHash:  hashed,
			Role:          models.Role(u.Role),
			FullName:      u.FullName,
			Department:    u.Department,
			AssignedClass: u.AssignedClass,
		})
	}

	students := make([]models.Student, 0, len(f.Students))
	for _, s := range f.Students {
		students = append(students, models.Student{
			RollNo:       s.RollNo,
			Name:         s.Name,
			StudentClass: s.StudentClass,
			ParentPhone:  s.ParentPhone,
			Department:   s.Department,
		})
	}

	err := im.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		for i := range users {
			if err := tx.UpsertUser(ctx, &users[i]); err != nil {
				return err
			}
		}
		for i := range students {
			if err := tx.UpsertStudent(ctx, &students[i]); err != nil {
				return err
			}
		}
		for _, e := range f.Timetable {
			entry := models.TimetableEntry{
				ClassName: e.ClassName,
				Day:       e.Day,
				TimeSlot:  e.TimeSlot,
				Subject:   e.Subject,
			}
			if err := tx.UpsertTimetableEntry(ctx, &entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.Error("seed_failed", "error", err)
		return Summary{}, err
	}

	sum := Summary{Users: len(users), Students: len(students), Timetable: len(f.Timetable)}

	if im.Indexer != nil && len(students) > 0 {
		if err := im.Indexer.IndexStudents(ctx, students); err != nil {
			l.Error("seed_index_failed", "error", err)
			return sum, fmt.Errorf("index students: %w", err)
		}
		sum.Indexed = len(students)
	}

	l.Info("seed_imported", "users", sum.Users, "students", sum.Students,
		"timetable", sum.Timetable, "indexed", sum.Indexed)
	return sum, nil
}

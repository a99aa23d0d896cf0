package models

type Role string

const (
	RolePrincipal    Role = "principal"
	RoleHOD          Role = "hod"
	RoleClassTeacher Role = "class_teacher"
	RoleStaff        Role = "staff"
)

var Roles = []Role{RolePrincipal, RoleHOD, RoleClassTeacher, RoleStaff}

func (r Role) Valid() bool {
	switch r {
	case RolePrincipal, RoleHOD, RoleClassTeacher, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID            uint    `gorm:"primaryKey;autoIncrement"  json:"-"`
	Username      string  `gorm:"uniqueIndex;not null"      json:"username"`
	PasswordHash  string  `gorm:"not null"                  json:"-"`
	Role          Role    `gorm:"not null"                  json:"role"`
	Department    *string `                                 json:"department,omitempty"`
	AssignedClass *string `                                 json:"assigned_class,omitempty"`
	FullName      string  `gorm:"not null"                  json:"full_name"`
}

type Student struct {
	RollNo       string  `gorm:"column:roll_no;primaryKey"       json:"roll_no"`
	Name         string  `gorm:"not null"                        json:"name"`
	StudentClass string  `gorm:"column:student_class;not null"   json:"student_class"`
	ParentPhone  string  `gorm:"column:parent_phone"             json:"parent_phone"`
	Department   *string `gorm:"index"                           json:"-"`
}

type TimetableEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"                     json:"id"`
	ClassName string `gorm:"uniqueIndex:idx_timetable_slot;not null"      json:"class_name"`
	Day       string `gorm:"uniqueIndex:idx_timetable_slot;not null"      json:"day"`
	TimeSlot  string `gorm:"uniqueIndex:idx_timetable_slot;not null"      json:"time_slot"`
	Subject   string `gorm:"not null"                                     json:"subject"`
}

func (TimetableEntry) TableName() string { return "timetable" }

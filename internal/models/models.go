package models

import (
	"github.com/go-playground/validator/v10"
)

// Role tags a session with the collection its user was resolved from.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

type Student struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required"`
	ClassID   string   `json:"classId"`
	ParentIDs []string `json:"parentIds"`
}

type Teacher struct {
	ID       string `json:"id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Subject  string `json:"subject"`
}

type Parent struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required"`
	StudentIDs []string `json:"studentIds"`
}

type Class struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	TeacherID  string   `json:"teacherId"`
	StudentIDs []string `json:"studentIds"`
}

type Schedule struct {
	ID        string `json:"id" validate:"required"`
	ClassID   string `json:"classId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	Subject   string `json:"subject"`
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=5"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Room      string `json:"room"`
}

type Assignment struct {
	ID          string `json:"id" validate:"required"`
	ClassID     string `json:"classId" validate:"required"`
	TeacherID   string `json:"teacherId" validate:"required"`
	Subject     string `json:"subject"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required"`
}

type Grade struct {
	ID           string `json:"id" validate:"required"`
	StudentID    string `json:"studentId" validate:"required"`
	AssignmentID string `json:"assignmentId" validate:"required"`
	TeacherID    string `json:"teacherId" validate:"required"`
	Value        int    `json:"value" validate:"min=1,max=5"`
	Note         string `json:"note,omitempty"`
	Date         string `json:"date" validate:"required"`
}

// Session is the record behind the auth-session slot. At most one exists;
// it is absent while logged out.
type Session struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role" validate:"required,oneof=teacher student parent"`
}

func (s Student) EntityID() string    { return s.ID }
func (t Teacher) EntityID() string    { return t.ID }
func (p Parent) EntityID() string     { return p.ID }
func (c Class) EntityID() string      { return c.ID }
func (s Schedule) EntityID() string   { return s.ID }
func (a Assignment) EntityID() string { return a.ID }
func (g Grade) EntityID() string      { return g.ID }

func (s Student) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

func (t Teacher) Validate() error {
	validate := validator.New()
	return validate.Struct(t)
}

func (p Parent) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

func (c Class) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func (s Schedule) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

func (a Assignment) Validate() error {
	validate := validator.New()
	return validate.Struct(a)
}

func (g Grade) Validate() error {
	validate := validator.New()
	return validate.Struct(g)
}

func (s Session) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

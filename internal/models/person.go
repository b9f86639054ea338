package models

import (
	"fmt"
	"strings"
	"time"
)

// Person is implemented only by *Student and *Instructor.
type Person interface {
	ID() string
	FullName() Name
	Email() string
	CreatedAt() time.Time
	Role() Role
	person() *identity
}

// identity holds the attributes shared by every person variant.
type identity struct {
	id        string
	fullName  Name
	email     string
	createdAt time.Time
}

func newIdentity(id string, name Name, email string) identity {
	return identity{id: id, fullName: name, email: email, createdAt: time.Now().UTC()}
}

func (p *identity) person() *identity { return p }

// ID returns the externally assigned identifier.
func (p *identity) ID() string { return p.id }

// FullName returns the person's name.
func (p *identity) FullName() Name { return p.fullName }

// Email returns the current contact address.
func (p *identity) Email() string { return p.email }

// CreatedAt returns when the record was constructed.
func (p *identity) CreatedAt() time.Time { return p.createdAt }

// SetEmail replaces the contact address.
func (p *identity) SetEmail(email string) { p.email = email }

// RenderProfile renders the role-specific profile of p.
func RenderProfile(p Person) string {
	switch v := p.(type) {
	case *Student:
		return renderStudent(v)
	case *Instructor:
		return renderInstructor(v)
	default:
		panic(fmt.Sprintf("models: unknown person variant %T", p))
	}
}

func renderStudent(s *Student) string {
	var b strings.Builder
	b.WriteString("=== Student Profile ===\n")
	fmt.Fprintf(&b, "ID: %s\n", s.ID())
	fmt.Fprintf(&b, "Registration No: %s\n", s.RegNo())
	fmt.Fprintf(&b, "Name: %s\n", s.FullName())
	fmt.Fprintf(&b, "Email: %s\n", s.Email())
	fmt.Fprintf(&b, "Status: %s\n", s.Status())
	fmt.Fprintf(&b, "Total Credits: %d\n", s.TotalCredits())
	fmt.Fprintf(&b, "Enrolled Courses: %d\n", len(s.enrolled))
	fmt.Fprintf(&b, "GPA: %.2f\n", s.GPA())
	return b.String()
}

func renderInstructor(i *Instructor) string {
	var b strings.Builder
	b.WriteString("=== Instructor Profile ===\n")
	fmt.Fprintf(&b, "ID: %s\n", i.ID())
	fmt.Fprintf(&b, "Name: %s\n", i.FullName())
	fmt.Fprintf(&b, "Email: %s\n", i.Email())
	fmt.Fprintf(&b, "Department: %s\n", i.Department())
	fmt.Fprintf(&b, "Assigned Courses: %d\n", len(i.assigned))
	return b.String()
}

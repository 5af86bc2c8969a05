package user

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrInvalidEmail  = errors.New("invalid email format")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is an organization member. Roles hold the aliases of the
// reservation services the user manages; managing a service grants the
// manager rule tier and the approve/cancel/delete permissions on its
// calendars.
type User struct {
	id           uuid.UUID
	username     string
	fullName     string
	email        Email
	activeMember bool
	sectionHead  bool
	roles        []string
}

func NewUser(id uuid.UUID, username, fullName string, email Email, activeMember, sectionHead bool, roles []string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	return &User{
		id:           id,
		username:     username,
		fullName:     fullName,
		email:        email,
		activeMember: activeMember,
		sectionHead:  sectionHead,
		roles:        roles,
	}, nil
}

// Manages reports whether the user manages the reservation service with
// the given alias.
func (u *User) Manages(serviceAlias string) bool {
	return slices.Contains(u.roles, serviceAlias)
}

func (u *User) ID() uuid.UUID      { return u.id }
func (u *User) Username() string   { return u.username }
func (u *User) FullName() string   { return u.fullName }
func (u *User) Email() Email       { return u.email }
func (u *User) ActiveMember() bool { return u.activeMember }
func (u *User) SectionHead() bool  { return u.sectionHead }
func (u *User) Roles() []string    { return u.roles }

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

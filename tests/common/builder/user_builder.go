//go:build unit || e2e

package builder

import (
	"reservation-engine/internal/domain/user"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID           uuid.UUID
	Username     string
	FullName     string
	Email        string
	ActiveMember bool
	SectionHead  bool
	Roles        []string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:           uuid.New(),
		Username:     "jnovak",
		FullName:     "Jan Novak",
		Email:        "jnovak@example.com",
		ActiveMember: true,
		SectionHead:  false,
		Roles:        []string{},
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

func (u *UserBuilder) WithClubMember() *UserBuilder {
	u.ActiveMember = false
	return u
}

func (u *UserBuilder) WithManagerOf(serviceAlias string) *UserBuilder {
	u.Roles = append(u.Roles, serviceAlias)
	return u
}

func (u *UserBuilder) WithSectionHead() *UserBuilder {
	u.SectionHead = true
	return u
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}
	return user.NewUser(u.ID, u.Username, u.FullName, email, u.ActiveMember, u.SectionHead, u.Roles)
}

package models

import (
	"errors"
	"time"

	"yamdb/proj/internal/domain/fields"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               int64     `json:"-"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	Staff            bool      `json:"-"`
	ConfirmationCode string    `json:"-"`
	FirstName        *string   `json:"first_name"`
	LastName         *string   `json:"last_name"`
	Bio              *string   `json:"bio"`
	CreatedAt        time.Time `json:"-"`
}

// AnonymousUser represents an unauthenticated request identity.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser || u.ID == 0
}

func (u *User) IsAdmin() bool {
	return !u.IsAnonymous() && u.Staff && u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return !u.IsAnonymous() && u.Role == RoleModerator
}

// IsPrivileged reports whether the user may moderate other users' content.
func (u *User) IsPrivileged() bool {
	return u.IsAdmin() || u.IsModerator()
}

var ErrInvalidSuperuser = errors.New("superuser requires a non-empty email and username")

// NewSuperuser is the only construction path that yields an admin identity:
// role=admin and the staff flag are always set together here.
func NewSuperuser(email, username, confirmationCode string) (*User, error) {
	if email == "" || username == "" {
		return nil, ErrInvalidSuperuser
	}
	return &User{
		Username:         username,
		Email:            email,
		Role:             RoleAdmin,
		Staff:            true,
		ConfirmationCode: confirmationCode,
	}, nil
}

type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Year        int32         `json:"year"`
	Rating      fields.Rating `json:"rating"`
	Description *string       `json:"description"`
	Genres      []Genre       `json:"genre"`
	Category    *Category     `json:"category"`
}

type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	Text     string    `json:"text"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Score    int32     `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	Text     string    `json:"text"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	PubDate  time.Time `json:"pub_date"`
}

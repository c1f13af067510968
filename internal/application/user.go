package application

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/example/agenda/internal/document"
	"github.com/example/agenda/internal/scheduler"
)

// UserInput carries the editable fields of a user. An empty Password keeps
// the stored credential on update and falls back to the default credential on
// creation.
type UserInput struct {
	ID       string
	Name     string
	Email    string
	Role     document.Role
	Password string
}

// SaveUser inserts or updates a user. Only administrators may manage users.
func (a *Agenda) SaveUser(ctx context.Context, principal Principal, input UserInput) (saved document.User, err error) {
	logger := a.loggerWith(ctx, "SaveUser", "user_id", input.ID)
	defer func() {
		logOutcome(ctx, logger, err, "user saved", "user_id", saved.ID, "role", saved.Role)
	}()

	if err = Authorize(principal, ViewUsers); err != nil {
		return
	}

	normalized := normalizeUserInput(input)
	if vErr := validateUserInput(normalized); vErr.HasErrors() {
		err = vErr
		return
	}

	var result document.User
	err = a.mutate(ctx, func(doc *document.Document) error {
		index := userIndex(doc.Users, normalized.ID)
		if other, ok := userByEmail(*doc, normalized.Email); ok && (index < 0 || other.ID != normalized.ID) {
			vErr := &ValidationError{}
			vErr.add("email", "email is already in use")
			return vErr
		}

		if index >= 0 {
			user := doc.Users[index]
			user.Name = normalized.Name
			user.Email = normalized.Email
			user.Role = normalized.Role
			if normalized.Password != "" {
				hash, err := a.hasher.Hash(normalized.Password)
				if err != nil {
					return fmt.Errorf("hash credential: %w", err)
				}
				user.PasswordHash = hash
			}
			doc.Users[index] = user
			result = user
			return nil
		}

		password := normalized.Password
		if password == "" {
			password = document.DefaultUserPassword
		}
		hash, err := a.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash credential: %w", err)
		}
		user := document.User{
			ID:           a.idGenerator(),
			Name:         normalized.Name,
			Email:        normalized.Email,
			Role:         normalized.Role,
			PasswordHash: hash,
			CreatedAt:    a.timestamp(),
		}
		doc.Users = append(doc.Users, user)
		result = user
		return nil
	})
	if err != nil {
		return
	}
	saved = result
	return
}

// DeleteUser removes a user. The acting user cannot delete themselves. Their
// bookings move to the first remaining user, or lose their owner when no user
// remains, and the authentication pointer is cleared if it pointed at them.
func (a *Agenda) DeleteUser(ctx context.Context, principal Principal, id string) (err error) {
	logger := a.loggerWith(ctx, "DeleteUser", "user_id", id)
	var reassigned int
	defer func() {
		logOutcome(ctx, logger, err, "user deleted", "reassigned_bookings", reassigned)
	}()

	if err = Authorize(principal, ViewUsers); err != nil {
		return
	}
	if principal.UserID == id {
		err = ErrSelfDeletion
		return
	}

	return a.mutate(ctx, func(doc *document.Document) error {
		index := userIndex(doc.Users, id)
		if index < 0 {
			return ErrNotFound
		}
		doc.Users = append(doc.Users[:index:index], doc.Users[index+1:]...)

		fallback := ""
		if len(doc.Users) > 0 {
			fallback = doc.Users[0].ID
		}
		doc.Bookings, reassigned = scheduler.ReassignUser(doc.Bookings, id, fallback)

		if doc.Auth.UserID == id {
			doc.Auth = document.Auth{}
		}
		return nil
	})
}

// ListUsers returns the users in stored order. Only administrators may list
// users.
func (a *Agenda) ListUsers(principal Principal) ([]document.User, error) {
	if err := Authorize(principal, ViewUsers); err != nil {
		return nil, err
	}
	var out []document.User
	a.read(func(doc document.Document) {
		out = make([]document.User, len(doc.Users))
		copy(out, doc.Users)
	})
	return out, nil
}

func normalizeUserInput(input UserInput) UserInput {
	return UserInput{
		ID:       strings.TrimSpace(input.ID),
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Role:     document.Role(strings.TrimSpace(string(input.Role))),
		Password: input.Password,
	}
}

func validateUserInput(input UserInput) *ValidationError {
	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if !validEmail(input.Email) {
		vErr.add("email", "email must be valid")
	}
	if !input.Role.Valid() {
		vErr.add("role", "role must be admin or atendente")
	}
	return vErr
}

// validEmail accepts bare addresses only, so "Name <x@y>" forms are rejected.
func validEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func userIndex(users []document.User, id string) int {
	if id == "" {
		return -1
	}
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

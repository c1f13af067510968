package application

import (
	"context"
	"strings"

	"github.com/example/agenda/internal/document"
)

// Authenticate checks the credentials against the stored users and records
// the matching user as authenticated. Unknown emails and wrong passwords both
// yield ErrInvalidCredentials.
func (a *Agenda) Authenticate(ctx context.Context, email, password string) (user document.User, err error) {
	email = strings.TrimSpace(email)
	logger := a.loggerWith(ctx, "Authenticate", "email", strings.ToLower(email))
	defer func() {
		logOutcome(ctx, logger, err, "authentication succeeded", "user_id", user.ID)
	}()

	if email == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var found document.User
	err = a.mutate(ctx, func(doc *document.Document) error {
		u, ok := userByEmail(*doc, email)
		if !ok || !a.hasher.Verify(u.PasswordHash, password) {
			return ErrInvalidCredentials
		}
		doc.Auth.UserID = u.ID
		found = u
		return nil
	})
	if err != nil {
		return
	}
	user = found
	return
}

// Logout clears the authentication pointer.
func (a *Agenda) Logout(ctx context.Context) (err error) {
	logger := a.loggerWith(ctx, "Logout")
	defer func() {
		logOutcome(ctx, logger, err, "logged out")
	}()

	return a.mutate(ctx, func(doc *document.Document) error {
		doc.Auth = document.Auth{}
		return nil
	})
}

// CurrentUser resolves the authenticated user, if any.
func (a *Agenda) CurrentUser() (user document.User, ok bool) {
	a.read(func(doc document.Document) {
		user, ok = doc.CurrentUser()
	})
	return
}

// CurrentPrincipal returns the principal of the authenticated user.
func (a *Agenda) CurrentPrincipal() (Principal, error) {
	user, ok := a.CurrentUser()
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	return PrincipalOf(user), nil
}

func userByEmail(doc document.Document, email string) (document.User, bool) {
	for _, u := range doc.Users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return document.User{}, false
}

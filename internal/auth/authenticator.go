// Package auth registers and authenticates household members and issues
// the bearer tokens the Connect interceptors check.
package auth

import (
	"context"

	"github.com/mmynk/hearth/internal/models"
)

// Authenticator turns credentials into hearth users. AuthService depends on
// this interface only; PasswordAuthenticator is the implementation hearthd
// wires in.
type Authenticator interface {
	// Register creates an account. Emails are unique after NormalizeEmail;
	// a taken address fails with ErrEmailExists.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email when credential matches,
	// and ErrInvalidCredentials otherwise, without revealing which part was wrong.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential rejects credentials too weak to store.
	ValidateCredential(credential string) error
}

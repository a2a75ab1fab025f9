package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/model"
	"github.com/abdul-maxwell/zetech-smart-attend/internal/repository"
)

var (
	ErrDuplicateEmail = errors.New("an identity with this email address already exists")
	ErrBadCredentials = errors.New("invalid login credentials")
)

// NewIdentity is the input to identity creation.
type NewIdentity struct {
	Email         string
	Password      string
	EmailVerified bool
	FirstName     string
	LastName      string
	Role          model.Role
}

// IdentityProvider creates and authenticates authentication accounts.
// The bulk provisioning job and the auth service both depend on this
// interface rather than on the storage implementation.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, input NewIdentity) (*model.Identity, error)
	Authenticate(ctx context.Context, email, password string) (*model.Identity, error)
	UpdatePassword(ctx context.Context, identityID, newPassword string) error
}

type localIdentityProvider struct {
	identities repository.IdentityRepository
}

// NewIdentityProvider creates the bcrypt-backed identity provider.
func NewIdentityProvider(identities repository.IdentityRepository) IdentityProvider {
	return &localIdentityProvider{identities: identities}
}

func (p *localIdentityProvider) CreateIdentity(ctx context.Context, input NewIdentity) (*model.Identity, error) {
	if _, err := p.identities.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	identity := &model.Identity{
		Email:         input.Email,
		PasswordHash:  string(hash),
		EmailVerified: input.EmailVerified,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Role:          input.Role,
	}

	if err := p.identities.Create(ctx, identity); err != nil {
		return nil, err
	}

	return identity, nil
}

func (p *localIdentityProvider) Authenticate(ctx context.Context, email, password string) (*model.Identity, error) {
	identity, err := p.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return identity, nil
}

func (p *localIdentityProvider) UpdatePassword(ctx context.Context, identityID, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return p.identities.UpdatePassword(ctx, identityID, string(hash))
}

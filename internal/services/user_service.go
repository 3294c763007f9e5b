// Package services – UserService
//
// This file implements account management: registration, listing, deletion,
// password changes and credential checks. Usernames are case-folded before
// they are stored or looked up. Passwords are stored as argon2id PHC
// strings produced by PasswordHasher.

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Password length bounds, in runes.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 256
)

var usernameRE = regexp.MustCompile(`^[\p{L}\p{N}._@+\-]{3,150}$`)

// Registration is the input of Register.
type Registration struct {
	Username    string              `json:"username"`
	Password    string              `json:"password"`
	Role        domain.Role         `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

// UserService manages login accounts.
type UserService struct {
	DB     *gorm.DB
	Retry  repo.RetryPolicy
	Hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService builds a UserService with default argon2id parameters.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		DB:     db,
		Retry:  repo.DefaultRetry,
		Hasher: PasswordHasher{Params: DefaultArgon2idParams()},
	}
}

// Register creates an account. A blank role defaults to staff; a taken
// username yields ErrConflict.
func (s *UserService) Register(ctx context.Context, in Registration) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Register",
		trace.WithAttributes(attribute.String("user.role", string(in.Role))),
	)
	defer span.End()

	name, err := normalizeUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if err := checkPassword("password", in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if !role.Valid() {
		return nil, invalid("role", "must be one of admin, staff, viewer")
	}
	perms := domain.NewPermissionSet()
	for _, p := range in.Permissions {
		if !p.Valid() {
			return nil, invalid("permissions", "unknown permission "+string(p))
		}
		perms.Grant(p)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, storage(err)
	}
	u := &domain.User{
		Username:     name,
		PasswordHash: hash,
		Role:         role,
		Permissions:  datatypes.NewJSONType(perms),
	}
	err = repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		return repo.CreateUser(ctx, tx, u)
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, conflict("Username already exists")
	}
	if err != nil {
		return nil, translate(err, "User")
	}
	return u, nil
}

// List returns every non-admin account ordered by id.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "List")
	defer span.End()

	var out []domain.User
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		out, err = repo.ListNonAdminUsers(ctx, tx)
		return err
	})
	if err != nil {
		return nil, translate(err, "User")
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

// Get returns the account with id.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	var u *domain.User
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		u, err = repo.GetUserByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "User")
	}
	return u, nil
}

// Delete removes the account with id.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Delete",
		trace.WithAttributes(attribute.Int64("user.id", int64(id))),
	)
	defer span.End()

	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		return repo.DeleteUser(ctx, tx, id)
	})
	return translate(err, "User")
}

// ChangePassword sets a new password for account id. Callers changing their
// own password must supply the current one; changing someone else's needs
// users:manage.
func (s *UserService) ChangePassword(ctx context.Context, caller domain.Identity, id uint, current, next string) error {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "ChangePassword",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(id)),
			attribute.Bool("self", caller.UserID == id),
		),
	)
	defer span.End()

	self := caller.UserID == id
	if !self && !caller.Can(domain.PermUsersManage) {
		return ErrForbidden
	}
	if err := checkPassword("new_password", next); err != nil {
		return err
	}

	return translate(repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		u, err := repo.GetUserByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if self {
			ok, err := s.Hasher.Verify(u.PasswordHash, current)
			if err != nil || !ok {
				return ErrInvalidCredentials
			}
		}
		hash, err := s.Hasher.Hash(next)
		if err != nil {
			return err
		}
		return repo.UpdatePasswordHash(ctx, tx, id, hash)
	}), "User")
}

// Authenticate returns the account matching username and password, or
// ErrInvalidCredentials. An unknown username still costs one hash so both
// failures take about the same time.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	ctx, span := otel.Tracer("services/UserService").Start(ctx, "Authenticate")
	defer span.End()

	name := foldUsername(username)
	var u *domain.User
	err := repo.Atomic(ctx, s.DB, s.Retry, func(tx *gorm.DB) error {
		var err error
		u, err = repo.GetUserByUsername(ctx, tx, name)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		_, _ = s.Hasher.Verify(s.dummy(), password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate(err, "User")
	}

	ok, err := s.Hasher.Verify(u.PasswordHash, password)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint("user_id", u.ID).Msg("unreadable password hash")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if s.Hasher.NeedsRehash(u.PasswordHash) {
		if hash, herr := s.Hasher.Hash(password); herr == nil {
			if uerr := repo.UpdatePasswordHash(ctx, s.DB, u.ID, hash); uerr != nil {
				log.Ctx(ctx).Warn().Err(uerr).Uint("user_id", u.ID).Msg("password rehash failed")
			}
		}
	}
	return u, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyHash
}

func foldUsername(u string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(u))
}

func normalizeUsername(u string) (string, error) {
	name := foldUsername(u)
	if name == "" {
		return "", invalid("username", "is required")
	}
	if !usernameRE.MatchString(name) {
		return "", invalid("username", "must be 3-150 letters, digits or ._@+-")
	}
	return name, nil
}

func checkPassword(field, pw string) error {
	n := utf8.RuneCountInString(pw)
	switch {
	case n == 0:
		return invalid(field, "is required")
	case n < MinPasswordLen:
		return invalid(field, "must be at least 8 characters")
	case n > MaxPasswordLen:
		return invalid(field, "must be at most 256 characters")
	}
	return nil
}

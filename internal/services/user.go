package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nemanja/arhiva-api/internal/database"
	"github.com/nemanja/arhiva-api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, identity_key, email, name, photo_url, role,
	has_storage_permission, permission_granted_at, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

// LoginInput carries the identity-provider claims of a login event.
type LoginInput struct {
	IdentityKey          string
	Email                string
	Name                 string
	PhotoURL             string
	HasStoragePermission bool
}

// Login upserts the user for a login event and reconciles the storage
// permission claim with stored state. A true claim always grants: the
// flag is set, the grant time stamped once, and a guest becomes a
// user. A false claim revokes only when permission was previously
// held, and downgrades only the user role. The admin role is never
// changed here.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE identity_key = $1
	`, in.IdentityKey))

	if errors.Is(err, pgx.ErrNoRows) {
		return s.createFromLogin(ctx, in)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.Email != in.Email || user.Name != in.Name || (user.PhotoURL == nil && in.PhotoURL != "") {
		_, _ = s.db.Pool.Exec(ctx, `
			UPDATE users SET email = $1, name = $2, photo_url = $3, updated_at = NOW()
			WHERE id = $4
		`, in.Email, in.Name, nullableString(in.PhotoURL), user.ID)
		user.Email = in.Email
		user.Name = in.Name
		if in.PhotoURL != "" {
			user.PhotoURL = &in.PhotoURL
		}
	}

	switch {
	case in.HasStoragePermission:
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			UPDATE users SET
				has_storage_permission = TRUE,
				permission_granted_at = COALESCE(permission_granted_at, NOW()),
				role = CASE WHEN role = 'guest' THEN 'user' ELSE role END,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns+`
		`, user.ID))
	case user.HasStoragePermission:
		user, err = scanUser(s.db.Pool.QueryRow(ctx, `
			UPDATE users SET
				has_storage_permission = FALSE,
				role = CASE WHEN role = 'user' THEN 'guest' ELSE role END,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns+`
		`, user.ID))
	default:
		return user, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to reconcile storage permission: %w", err)
	}
	return user, nil
}

func (s *UserService) createFromLogin(ctx context.Context, in LoginInput) (*models.User, error) {
	role := models.RoleGuest
	if in.HasStoragePermission {
		role = models.RoleUser
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (identity_key, email, name, photo_url, role,
			has_storage_permission, permission_granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, CASE WHEN $6 THEN NOW() END)
		RETURNING `+userColumns+`
	`, in.IdentityKey, in.Email, in.Name, nullableString(in.PhotoURL), string(role), in.HasStoragePermission))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GrantStoragePermission is the explicit grant action: it sets the
// flag unconditionally, stamps the grant time if unset and upgrades a
// guest to user. Returns ErrUserNotFound for an unknown identity key.
func (s *UserService) GrantStoragePermission(ctx context.Context, identityKey string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET
			has_storage_permission = TRUE,
			permission_granted_at = COALESCE(permission_granted_at, NOW()),
			role = CASE WHEN role = 'guest' THEN 'user' ELSE role END,
			updated_at = NOW()
		WHERE identity_key = $1
		RETURNING `+userColumns+`
	`, identityKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to grant storage permission: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByIdentityKey(ctx context.Context, identityKey string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE identity_key = $1
	`, identityKey))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var role string
	err := row.Scan(
		&user.ID, &user.IdentityKey, &user.Email, &user.Name, &user.PhotoURL,
		&role, &user.HasStoragePermission, &user.PermissionGrantedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = models.ParseRole(role)
	return &user, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

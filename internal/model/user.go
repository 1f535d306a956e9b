package model

import "time"

// Role names stored in users.role.  Every user carries exactly one of
// these.  New registrations are always provisioned as STAFF; only an
// ADMIN may change a user's role afterwards.
const (
	RoleAdmin = "ADMIN"
	RoleATC   = "ATC"
	RoleStaff = "STAFF"
)

// ValidRole reports whether s is one of the known role names.
func ValidRole(s string) bool {
	return s == RoleAdmin || s == RoleATC || s == RoleStaff
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  Handlers
// define separate response types with JSON tags; this struct is used by
// the repository layer only.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (ADMIN, ATC or STAFF).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Profile is the companion row created for every user on registration.
// It starts empty and can be filled in by the user later.
//
// Fields:
//  UserID    – owner of the profile (primary key, references users.id).
//  FullName  – display name (nullable).
//  Phone     – contact phone number (nullable).
//  UpdatedAt – timestamp of last update.
type Profile struct {
	UserID    uint64    // profiles.user_id
	FullName  *string   // profiles.full_name (nullable)
	Phone     *string   // profiles.phone (nullable)
	UpdatedAt time.Time // profiles.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

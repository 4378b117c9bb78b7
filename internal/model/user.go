package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
//
// Roles form a hierarchy: VIEWER may read, OPERATOR may additionally
// create, update, export and record payments, ADMIN may additionally
// delete services and manage users.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  Name         – display name shown in the UI and on documents.
//  PasswordHash – bcrypt hashed password.
//  Role         – role name (ADMIN, OPERATOR or VIEWER).
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    Name         string    // users.name
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Role names accepted in users.role and in the JWT "role" claim.
const (
    RoleAdmin    = "ADMIN"
    RoleOperator = "OPERATOR"
    RoleViewer   = "VIEWER"
)

// RoleAtLeast reports whether role carries at least the permissions of
// required. Unknown roles rank below VIEWER and therefore never pass.
func RoleAtLeast(role, required string) bool {
    rank := func(r string) int {
        switch r {
        case RoleViewer:
            return 1
        case RoleOperator:
            return 2
        case RoleAdmin:
            return 3
        }
        return 0
    }
    return rank(role) >= rank(required) && rank(role) > 0
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation. The plain token is not stored; only its
// SHA-256 hash.
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

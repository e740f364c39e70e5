package model

import "time"

// User represents a contributor account as stored in the `users` table.
// Each field corresponds to a column in the database.  The json tags are
// omitted here because these structs are primarily used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.  The password hash is never serialized.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name supplied at registration.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// PasswordReset models an entry in the `password_resets` table.  Each
// reset token belongs to a user and is single use.  The plain token is
// not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token (one hour after issue).
//  UsedAt    – when the token was consumed (null while still valid).
//  CreatedAt – timestamp of creation.
type PasswordReset struct {
    ID        uint64     // password_resets.id
    UserID    uint64     // password_resets.user_id
    TokenHash string     // password_resets.token_hash
    ExpiresAt time.Time  // password_resets.expires_at
    UsedAt    *time.Time // password_resets.used_at (nullable)
    CreatedAt time.Time  // password_resets.created_at
}

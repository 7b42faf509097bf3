// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted, self-describing hash from a plaintext password.
	Hash(password string) (string, error)

	// Verify compares a plaintext password with a stored hash in constant time.
	// A mismatch is (false, nil). A hash that cannot be parsed is (false, err)
	// with an IntegrityCorruption error: that is data corruption, not a wrong password.
	Verify(password, hash string) (bool, error)
}

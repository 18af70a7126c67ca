package ports

// PasswordHasher produces and checks one-way credential hashes.
// Hash may embed a fresh salt, so equal inputs need not yield equal output.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	Verify(raw, hash string) bool
}

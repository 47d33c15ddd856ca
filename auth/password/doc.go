// Package password hashes and verifies user passwords.
//
// New hashes always use argon2id with the configured parameters and a fresh
// random salt, encoded in the PHC string format:
//
//	$argon2id$v=19$m=65536,t=2,p=1$<salt>$<hash>
//
// Verification reads the parameters from the stored hash, so hashes produced
// under older parameters keep verifying. NeedsRehash reports when a stored
// hash should be replaced after a successful login. Legacy bcrypt hashes
// ($2a$, $2b$, $2y$) are verified with bcrypt and always need a rehash.
//
//	hasher, err := password.NewHasher(password.Config{})
//	hash, err := hasher.Hash("Str0ng!Pass")
//	ok, err := hasher.Verify(hash, "Str0ng!Pass")
//	stale, err := hasher.NeedsRehash(hash)
package password

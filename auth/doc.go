// Package auth provides authentication building blocks.
//
// Subpackages:
//
//   - auth/jwt       HS256 token issuance and validation
//   - auth/password  argon2id password hashing and the strength policy
//   - auth/authctx   type-safe request context propagation for claims
//
// The top-level package provides shared contracts:
//
//   - TokenValidator  interface for validating tokens
//   - Config          composed configuration of the subpackages
//
// All packages follow the same conventions: Config structs with
// ApplyDefaults()/Validate(), constructor functions, and mapstructure tags
// for config file loading:
//
//	auth:
//	  jwt:
//	    secret: "..."
//	    access_token_ttl: "1h"
//	  password:
//	    argon2_time: 2
//	    argon2_memory: 65536
package auth

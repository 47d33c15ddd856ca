package jwt

import (
	"encoding/json"
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const (
	claimUserID     = "user_id"
	claimAccessType = "access_type"
)

var registeredKeys = map[string]bool{
	"iss": true, "sub": true, "aud": true, "exp": true,
	"nbf": true, "iat": true, "jti": true,
	claimUserID: true, claimAccessType: true,
}

// Claims is the token payload. It serializes as a flat JSON object:
//
//	{"user_id":42,"access_type":"admin","iat":1700000000,"exp":1700003600,"jti":"..."}
//
// Extra holds any additional keys; keys that collide with the fields above are ignored.
type Claims struct {
	UserID     int64
	AccessType *string
	Extra      map[string]any

	gojwt.RegisteredClaims
}

// MarshalJSON flattens the claims into a single object.
func (c Claims) MarshalJSON() ([]byte, error) {
	registered, err := json.Marshal(c.RegisteredClaims)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(registered, &fields); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(c.Extra)+len(fields)+2)
	for k, v := range c.Extra {
		if !registeredKeys[k] {
			out[k] = v
		}
	}
	for k, v := range fields {
		out[k] = v
	}
	out[claimUserID] = c.UserID
	out[claimAccessType] = c.AccessType
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat claims object. user_id is required.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	uid, ok := raw[claimUserID]
	if !ok || string(uid) == "null" {
		return errors.New("missing user_id claim")
	}
	var out Claims
	if err := json.Unmarshal(uid, &out.UserID); err != nil {
		return fmt.Errorf("user_id claim: %w", err)
	}
	if at, ok := raw[claimAccessType]; ok {
		if err := json.Unmarshal(at, &out.AccessType); err != nil {
			return fmt.Errorf("access_type claim: %w", err)
		}
	}
	if err := json.Unmarshal(data, &out.RegisteredClaims); err != nil {
		return err
	}

	for k, v := range raw {
		if registeredKeys[k] {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("%s claim: %w", k, err)
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[k] = val
	}

	*c = out
	return nil
}

// AccessTypeValue returns the access type or "" when absent.
func (c *Claims) AccessTypeValue() string {
	if c.AccessType == nil {
		return ""
	}
	return *c.AccessType
}

// StringPtr returns a pointer to s, for setting Claims.AccessType.
func StringPtr(s string) *string { return &s }

// SubjectID returns the user ID, satisfying authctx.Identified.
func (c *Claims) SubjectID() int64 { return c.UserID }

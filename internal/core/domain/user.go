package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Reserved top-level attribute names. Everything else lands in User.Extra.
const (
	FieldID   = "id"
	FieldName = "name"
	FieldBio  = "bio"
)

var ErrUserNotFound = errors.New("user not found")
var ErrInvalidUser = errors.New("name and bio are required")
var ErrInvalidField = errors.New("invalid field")

// User is a record in the user store. Attributes other than id, name and bio
// are kept verbatim in Extra and serialised at the top level of the object.
type User struct {
	ID    string
	Name  string
	Bio   string
	Extra map[string]any
}

// Fields is a set of top-level attributes to merge onto a User.
type Fields map[string]any

// Clone returns a copy of u that shares no top-level map with it.
func (u User) Clone() User {
	out := u
	if u.Extra != nil {
		out.Extra = make(map[string]any, len(u.Extra))
		for k, v := range u.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

// Merge applies f onto a copy of u. Keys in f overwrite the matching
// attribute; keys absent from f are left untouched. The id is immutable and
// an id key in f is ignored.
func (u User) Merge(f Fields) (User, error) {
	out := u.Clone()
	for k, v := range f {
		switch k {
		case FieldID:
			continue
		case FieldName, FieldBio:
			s, err := stringField(k, v)
			if err != nil {
				return User{}, err
			}
			if k == FieldName {
				out.Name = s
			} else {
				out.Bio = s
			}
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]any, len(f))
			}
			out.Extra[k] = v
		}
	}
	return out, nil
}

// null clears the attribute.
func stringField(key string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidField, key)
	}
}

func (u User) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(u.Extra)+3)
	for k, v := range u.Extra {
		obj[k] = v
	}
	obj[FieldID] = u.ID
	obj[FieldName] = u.Name
	obj[FieldBio] = u.Bio
	return json.Marshal(obj)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var f Fields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	merged, err := User{}.Merge(f)
	if err != nil {
		return err
	}
	if id, ok := f[FieldID].(string); ok {
		merged.ID = id
	}
	*u = merged
	return nil
}

// SampleUsers returns the records a fresh store is seeded with.
func SampleUsers() []User {
	return []User{
		{Name: "Jane Doe", Bio: "Not Tarzan's Wife, another Jane."},
		{Name: "John Doe", Bio: "I'm just a guy."},
	}
}

package session

import (
	"encoding/json"
	"strconv"
)

// DefaultTokenTTLMinutes is the access token lifetime requested at login when none is configured.
const DefaultTokenTTLMinutes = 30

// UserType drives the role label shown for a user. It is not a permission
// source; route access comes from the permitted screens alone.
type UserType int

const (
	UserTypeAdmin   UserType = 1
	UserTypeUser    UserType = 2
	UserTypeManager UserType = 3
)

// Label returns the display role for the user type.
func (u UserType) Label() string {
	switch u {
	case UserTypeAdmin:
		return "Admin"
	case UserTypeUser:
		return "User"
	case UserTypeManager:
		return "Manager"
	default:
		return "Guest"
	}
}

// Flag is a boolean carried as 0/1 on the wire.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "1", "true":
		*f = true
	case "0", "false", "null":
		*f = false
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*f = n != 0
	}
	return nil
}

// ID accepts either a JSON string or number and keeps it as a string.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	if string(data) == "null" {
		*i = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = ID(n.String())
	return nil
}

// UserProfile is the signed in user's details as returned by the login call.
type UserProfile struct {
	ID        ID       `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstname"`
	LastName  string   `json:"lastname"`
	Gender    string   `json:"gender"`
	UserCode  string   `json:"userCode"`
	IsActive  Flag     `json:"isActive"`
	UserType  UserType `json:"UserType"`
}

// ScreenGrant authorises one exact route path for the current user.
type ScreenGrant struct {
	ScreenURL  string `json:"ScreenUrl"`
	ScreenName string `json:"ScreenName"`
}

// Session is the process-wide record of the user's authentication state.
// Loading and LastError are transient and never persisted.
type Session struct {
	IsAuthenticated  bool          `json:"isAuthenticated"`
	AccessToken      string        `json:"token,omitempty"`
	RefreshToken     string        `json:"refreshToken,omitempty"`
	TokenTTLMinutes  int           `json:"tokenExpirationTime"`
	UserProfile      UserProfile   `json:"userData"`
	PermittedScreens []ScreenGrant `json:"userURL"`

	Loading   bool   `json:"-"`
	LastError string `json:"-"`
}

// Empty returns the logged out state.
func Empty(ttlMinutes int) Session {
	if ttlMinutes <= 0 {
		ttlMinutes = DefaultTokenTTLMinutes
	}
	return Session{
		TokenTTLMinutes:  ttlMinutes,
		PermittedScreens: []ScreenGrant{},
	}
}

// Clone returns a deep copy that shares nothing with s.
func (s Session) Clone() Session {
	c := s
	c.PermittedScreens = make([]ScreenGrant, len(s.PermittedScreens))
	copy(c.PermittedScreens, s.PermittedScreens)
	return c
}

// normalise fills absent persisted fields with their defaults and drops an
// authenticated flag that has no access token behind it.
func (s *Session) normalise(defaultTTL int) {
	if s.TokenTTLMinutes <= 0 {
		s.TokenTTLMinutes = defaultTTL
	}
	if s.PermittedScreens == nil {
		s.PermittedScreens = []ScreenGrant{}
	}
	if s.AccessToken == "" {
		s.IsAuthenticated = false
	}
	s.Loading = false
	s.LastError = ""
}

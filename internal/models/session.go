package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DemoUsername activates the bundled sample gradebook. Demo sessions never
// reach the upstream service and refresh is a no-op for them.
const DemoUsername = "demo"

// Credentials identify a student against the district StudentVue endpoint.
// DistrictURL is optional only for the demo account.
type Credentials struct {
	DistrictURL string `json:"district_url" validate:"omitempty,url"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

// IsDemo reports whether the credentials select the offline demo account.
func (c Credentials) IsDemo() bool {
	return c.Username == DemoUsername
}

// JWTClaims carry the session identity inside access tokens.
type JWTClaims struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// Pagination describes paging metadata in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// SessionView is what the API hands back for a session's gradebook state.
// The gradebook is the hypothetical derivation whenever what-if mode is on.
type SessionView struct {
	Gradebook        *Gradebook `json:"gradebook,omitempty"`
	IsLoggedIn       bool       `json:"is_logged_in"`
	HypotheticalMode bool       `json:"hypothetical_mode"`
	LastUpdated      *time.Time `json:"last_updated,omitempty"`
}

// LoginResponse is returned after a successful upstream authentication.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	IssuedAt    time.Time   `json:"issued_at"`
	Session     SessionView `json:"session"`
}

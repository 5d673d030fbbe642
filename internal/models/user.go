package models

type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
)

// LoginResult is the outcome of a credential check. On failure only Status
// is set, and the other keys are left out of the JSON body.
type LoginResult struct {
	Status         string `json:"status"`
	UserID         int64  `json:"user_id,omitempty"`
	WelcomeMessage string `json:"User_name,omitempty"`
	EmailMessage   string `json:"email,omitempty"`
}

package dto

// SignupRequest is the body for POST /auth/signup.
type SignupRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// SigninRequest is the body for POST /auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser is the public view of a signed-in user.
type SessionUser struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// SessionResponse is returned on successful signup or signin.
// The token is shown once; the server keeps only a digest.
type SessionResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

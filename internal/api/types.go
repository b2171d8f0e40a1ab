package api

import "github.com/Heipiao/taluo/internal/model/chat"

// Request and response bodies for the api.aigcteacher.top contract. Field
// names follow the backend's snake_case exactly.

// EmailLoginRequest is the body for /admin/user/login.
type EmailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PhoneLoginRequest is the body for /admin/user/phone_login.
type PhoneLoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// LoginResponse is shared by both login endpoints.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message,omitempty"`
}

// RegisterRequest is the body for /admin/user/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse echoes the created account name.
type RegisterResponse struct {
	Username string `json:"username"`
	Message  string `json:"message,omitempty"`
}

// SendSMSRequest is the body for /admin/user/send_sms.
type SendSMSRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// UpdateProfileRequest is the body for /admin/user/update_profile.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// BalanceResponse is the body of /admin/user/balance.
type BalanceResponse struct {
	Balance int `json:"balance"`
}

// InviteCodeResponse is the body of /admin/user/invite_code.
type InviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

// SetReferrerRequest is the body for /admin/balance/set_referrer.
type SetReferrerRequest struct {
	Code string `json:"code"`
}

// SetReferrerResponse reports whether the code was accepted.
type SetReferrerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// NextQuestionRequest is the body for /biz/core/next_question. Role carries
// the deity name and Task its primary tag; Messages is the transcript
// oldest-first.
type NextQuestionRequest struct {
	UserID   string             `json:"user_id"`
	Role     string             `json:"role"`
	Task     string             `json:"task"`
	Messages []chat.WireMessage `json:"messages"`
}

// NextQuestionResponse wraps the generated answer.
type NextQuestionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    struct {
		Question struct {
			Answer string `json:"answer"`
		} `json:"question"`
	} `json:"data"`
}

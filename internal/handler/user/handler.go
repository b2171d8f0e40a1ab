package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Heipiao/taluo/internal/service/account"
	"github.com/Heipiao/taluo/pkg/utils"
)

// Handler 用户与余额相关接口的HTTP处理器
type Handler struct {
	accounts *account.Service
}

// New 创建用户处理器
func New(accounts *account.Service) *Handler {
	return &Handler{accounts: accounts}
}

// RegisterRoutes 注册用户相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/admin/user/login", h.handleEmailLogin)
	r.Post("/admin/user/phone_login", h.handlePhoneLogin)
	r.Post("/admin/user/register", h.handleRegister)
	r.Post("/admin/user/send_sms", h.handleSendSMS)
	r.Post("/admin/user/update_profile", h.handleUpdateProfile)
	r.Get("/admin/user/balance", h.handleBalance)
	r.Get("/admin/user/invite_code", h.handleInviteCode)
	r.Post("/admin/balance/set_referrer", h.handleSetReferrer)
}

func (h *Handler) handleEmailLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Email == "" || payload.Password == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "email and password are required")
		return
	}

	logged, token, err := h.accounts.EmailLogin(payload.Email, payload.Password)
	if err != nil {
		utils.RespondMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"user_id":  logged.UserID,
		"username": logged.Username,
	})
}

func (h *Handler) handlePhoneLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PhoneNumber string `json:"phone_number"`
		Code        string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.PhoneNumber == "" || payload.Code == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "phone_number and code are required")
		return
	}

	logged, token, err := h.accounts.PhoneLogin(payload.PhoneNumber, payload.Code)
	if err != nil {
		utils.RespondMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"token":    token,
		"user_id":  logged.UserID,
		"username": logged.Username,
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Username == "" || payload.Email == "" || payload.Password == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	created, err := h.accounts.Register(payload.Username, payload.Email, payload.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, account.ErrEmailTaken) {
			status = http.StatusConflict
		}
		utils.RespondMessage(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]string{"username": created.Username})
}

func (h *Handler) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.PhoneNumber == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "phone_number is required")
		return
	}

	h.accounts.SendSMSCode(payload.PhoneNumber)
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	logged, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.accounts.UpdateProfile(logged.UserID, payload.Username, payload.Email); err != nil {
		utils.RespondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	logged, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	balance, err := h.accounts.Balance(logged.UserID)
	if err != nil {
		utils.RespondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"balance": balance})
}

func (h *Handler) handleInviteCode(w http.ResponseWriter, r *http.Request) {
	logged, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"invite_code": logged.InviteCode})
}

func (h *Handler) handleSetReferrer(w http.ResponseWriter, r *http.Request) {
	logged, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Code == "" {
		utils.RespondMessage(w, http.StatusBadRequest, "code is required")
		return
	}

	if err := h.accounts.SetReferrer(logged.UserID, payload.Code); err != nil {
		// Contract: rejection is a 2xx body with success=false.
		utils.RespondJSON(w, http.StatusOK, map[string]any{"success": false, "message": err.Error()})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// authenticate resolves the bearer token or writes a 401.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (*account.Account, bool) {
	logged, err := h.accounts.Authenticate(BearerToken(r))
	if err != nil {
		utils.RespondMessage(w, http.StatusUnauthorized, err.Error())
		return nil, false
	}
	return logged, true
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

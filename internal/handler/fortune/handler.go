package fortune

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	userhandler "github.com/Heipiao/taluo/internal/handler/user"
	chatmodel "github.com/Heipiao/taluo/internal/model/chat"
	"github.com/Heipiao/taluo/internal/model/deity"
	"github.com/Heipiao/taluo/internal/service/account"
	fortuneservice "github.com/Heipiao/taluo/internal/service/fortune"
	"github.com/Heipiao/taluo/pkg/utils"
)

// Handler 占卜问答接口的HTTP处理器
type Handler struct {
	accounts *account.Service
	fortunes *fortuneservice.Service
	catalog  deity.Store
}

// New 创建占卜处理器
func New(accounts *account.Service, fortunes *fortuneservice.Service, catalog deity.Store) *Handler {
	return &Handler{accounts: accounts, fortunes: fortunes, catalog: catalog}
}

// RegisterRoutes 注册占卜相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/biz/core/next_question", h.handleNextQuestion)
}

func (h *Handler) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	if _, err := h.accounts.Authenticate(userhandler.BearerToken(r)); err != nil {
		utils.RespondMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	var payload struct {
		UserID   string                  `json:"user_id"`
		Role     string                  `json:"role"`
		Task     string                  `json:"task"`
		Messages []chatmodel.WireMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(payload.Messages) == 0 {
		utils.RespondMessage(w, http.StatusBadRequest, "messages are required")
		return
	}

	// The wire carries the deity's display name; unknown names fall back to
	// the catalog default rather than failing the reading.
	active, ok := h.catalog.FindByName(payload.Role)
	if !ok {
		deities := h.catalog.List()
		if len(deities) == 0 {
			utils.RespondMessage(w, http.StatusInternalServerError, "deity catalog is empty")
			return
		}
		active = deities[0]
	}

	answer, err := h.fortunes.Answer(r.Context(), active, payload.Task, payload.Messages)
	if err != nil {
		log.Printf("[fortune] answer failed, deity=%s: %v", active.ID, err)
		utils.RespondMessage(w, http.StatusInternalServerError, "占卜失败，请稍后再试")
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"question": map[string]any{"answer": answer},
		},
	})
}

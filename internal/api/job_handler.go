package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/HarveyGG/OpenStock/internal/domain"
)

// GetJob возвращает job по ID.
// GET /api/v1/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		BadRequest(w, "missing job id")
		return
	}

	job, err := h.queue.GetJob(r.Context(), id)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	if job == nil {
		NotFound(w, "job not found")
		return
	}

	Success(w, JobFromDomain(*job))
}

// SendWelcome ставит welcome-письмо в очередь.
// POST /api/v1/welcome
func (h *Handler) SendWelcome(w http.ResponseWriter, r *http.Request) {
	var req SendWelcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		BadRequest(w, "valid email is required")
		return
	}

	user := domain.User{
		Email:             req.Email,
		Name:              strings.TrimSpace(req.Name),
		Country:           req.Country,
		InvestmentGoals:   req.InvestmentGoals,
		RiskTolerance:     req.RiskTolerance,
		PreferredIndustry: req.PreferredIndustry,
	}
	if user.Name == "" {
		user.Name = user.Email
	}

	job, err := h.queue.EnqueueWelcome(r.Context(), user)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Accepted(w, JobFromDomain(*job))
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdrop/internal/app"
	"github.com/shrimpsizemoose/quizdrop/internal/metrics"
	"github.com/shrimpsizemoose/quizdrop/internal/models"
)

type AdminHandler struct {
	service *app.Service
}

func NewAdminHandler(service *app.Service) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (h *AdminHandler) HandleData(w http.ResponseWriter, r *http.Request) {
	students := h.service.Submissions(r.Context())
	logger.Info.Printf("Admin requested data. Returning %d records.", len(students))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"students": students,
	})
}

func (h *AdminHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	err := decodeBody(w, r, &creds)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil, errors.Is(err, errEmptyBody):
	case errors.As(err, &typeErr):
		// not an object, so there is nothing to match against
		creds = models.Credentials{}
	default:
		badBody(w, err)
		return
	}

	token, err := h.service.Auth.Login(creds)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "Invalid credentials",
		})
		return
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
		"message": "Login successful",
	})
}

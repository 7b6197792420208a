package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/quizdrop/internal/app"
	"github.com/shrimpsizemoose/quizdrop/internal/models"
)

type QuizHandler struct {
	service *app.Service
}

func NewQuizHandler(service *app.Service) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

func (h *QuizHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var body interface{}
	if err := decodeBody(w, r, &body); err != nil && !errors.Is(err, errEmptyBody) {
		badBody(w, err)
		return
	}

	// anything but a JSON object carries none of the required fields
	submission, ok := body.(map[string]interface{})
	if !ok {
		submission = map[string]interface{}{}
	}

	receipt, err := h.service.Submit(r.Context(), models.Submission(submission))
	if errors.Is(err, models.ErrMissingFields) {
		logger.Debug.Printf("Rejected submission: %v", err)
		writeMessage(w, http.StatusBadRequest, "Missing required student data for submission.")
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to submit quiz: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to submit quiz")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Quiz submitted and data saved successfully!",
		"data":    receipt,
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"qr-feedback-backend/internal/logging"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// serverError logs err and answers with a generic message.
func serverError(ctx context.Context, fallback *logging.Logger, w http.ResponseWriter, message string, err error) {
	logging.FromContext(ctx, fallback).Error(ctx, message, zap.Error(err))
	writeError(w, http.StatusInternalServerError, message)
}

func advisorIDParam(r *http.Request) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(chi.URLParam(r, "advisorId"))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}

package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"drapecost/internal/calc"
	"drapecost/internal/service"
	"drapecost/internal/storage"
)

type QuoteSaver interface {
	SaveQuote(ctx context.Context, req service.QuoteRequest) (*service.SavedQuote, error)
}

// SaveQuote prices and stores a quote. A confirmed leftover is marked as
// used by the quote; a piece taken by another quote answers 409.
func SaveQuote(log *slog.Logger, quotes QuoteSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.quotes.SaveQuote"

		var req service.QuoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		saved, err := quotes.SaveQuote(ctx, req)
		if err != nil {
			switch {
			case errors.Is(err, calc.ErrInsufficientData):
				http.Error(w, "measurements are incomplete", http.StatusUnprocessableEntity)
			case errors.Is(err, service.ErrConfirmationRequired):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, storage.ErrLeftoverUsed):
				http.Error(w, "leftover piece is already used", http.StatusConflict)
			case errors.Is(err, storage.ErrNotFound):
				http.Error(w, "template or fabric not found", http.StatusNotFound)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to save quote")
				http.Error(w, "Internal error", http.StatusInternalServerError)
			}
			return
		}

		log.Info("quote saved",
			slog.String("op", op),
			slog.Int64("id", saved.ID),
			slog.String("reference", saved.Reference),
			slog.String("leftover", saved.Result.LeftoverUsed),
		)

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, saved)
	}
}

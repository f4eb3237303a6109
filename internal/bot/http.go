package bot

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"medbot/internal/models"
)

// HTTPServer exposes the appointment notification endpoint and, in
// webhook mode, the Telegram update endpoint
type HTTPServer struct {
	bot *Bot
}

// NewHTTPServer creates the HTTP surface for the bot
func NewHTTPServer(bot *Bot) *HTTPServer {
	return &HTTPServer{bot: bot}
}

// Router builds the chi router with all routes registered
func (hs *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	r.Route("/bot", func(r chi.Router) {
		r.Post("/new-appointment", hs.handleNewAppointment)
	})

	r.Post("/telegram-webhook", hs.handleTelegramWebhook)

	return r
}

// handleNewAppointment formats and forwards an appointment confirmation.
// The response status reflects the actual delivery outcome.
func (hs *HTTPServer) handleNewAppointment(w http.ResponseWriter, r *http.Request) {
	var appointment models.Appointment
	if err := json.NewDecoder(r.Body).Decode(&appointment); err != nil {
		hs.bot.logger.Warn("Failed to decode appointment", zap.Error(err))
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if appointment.UserID == 0 {
		http.Error(w, `{"error":"userId is required"}`, http.StatusBadRequest)
		return
	}
	if appointment.Time.IsZero() {
		http.Error(w, `{"error":"time is required"}`, http.StatusBadRequest)
		return
	}

	text := fmt.Sprintf(appointmentTemplate,
		appointment.Specialist,
		appointment.Specialisation,
		appointment.Time.Format(appointmentTimeFormat),
		appointment.InstitutionName,
		appointment.InstitutionAddress,
	)

	if err := hs.bot.sendText(appointment.UserID, text); err != nil {
		http.Error(w, `{"error":"delivery failed"}`, http.StatusBadGateway)
		return
	}

	hs.bot.logger.Info("Appointment notification delivered",
		zap.Int64("user_id", appointment.UserID),
		zap.String("specialist", appointment.Specialist),
	)
	w.WriteHeader(http.StatusOK)
}

// handleTelegramWebhook accepts a webhook update and acknowledges
// immediately; the per-chat queue keeps processing ordered
func (hs *HTTPServer) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		hs.bot.logger.Warn("Failed to decode webhook update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	hs.bot.dispatch(update)
	w.WriteHeader(http.StatusOK)
}

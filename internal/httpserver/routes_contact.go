// internal/httpserver/routes_contact.go
//
// Contact form endpoint. Out of the game's core path, but part of the
// public API surface: validated input, 5 req / 15 min / IP (limiter is
// installed on the route in server.go), SMTP delivery via the mailer.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bannerdle/go-server/internal/mailer"
)

type contactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (c *contactReq) validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Message = strings.TrimSpace(c.Message)
	if c.Name == "" || len(c.Name) > 100 {
		return errors.New("name must be 1-100 chars")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.New("invalid email address")
	}
	if c.Message == "" || len(c.Message) > 2000 {
		return errors.New("message must be 1-2000 chars")
	}
	return nil
}

// handleContact validates and forwards one contact-form message.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var body contactReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, `{"error":"invalid_json"}`, http.StatusBadRequest)
		return
	}
	if err := body.validate(); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	err := s.mail.Send(r.Context(), body.Name, body.Email, "Bannerdle contact form", body.Message)
	if errors.Is(err, mailer.ErrDisabled) {
		http.Error(w, `{"error":"contact form unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("contact mail send")
		http.Error(w, `{"error":"send_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

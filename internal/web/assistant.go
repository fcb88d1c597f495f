package web

import (
	"net/http"
	"strings"
	"time"

	appLog "daydesk/internal/log"
	"daydesk/internal/schedule"
)

type assistantResponse struct {
	Text string `json:"text"`
}

// handleBriefing generates (or serves the cached) daily briefing for a
// date, embedding a plain-text agenda summary of that day.
//
// POST /api/assistant/briefing {"date": "YYYY-MM-DD"}
func (s *Server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant backend not configured")
		return
	}

	var req struct {
		Date string `json:"date"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return
	}

	loc := s.cfg.Location()
	ref := time.Now().In(loc)
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad date, want YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	view := s.agenda.ViewAt(schedule.ModeDay, ref)
	var agendaLines []string
	for _, item := range view.Items {
		line := item.Title
		if !item.AllDay {
			line = item.Start.In(loc).Format("15:04") + " " + line
		}
		agendaLines = append(agendaLines, "- "+line)
	}
	if len(agendaLines) == 0 {
		agendaLines = []string{"- (no items)"}
	}

	text, err := s.ai.Briefing(r.Context(), ref.Format("2006-01-02"), s.cfg.Assistant.Coordinates, strings.Join(agendaLines, "\n"))
	if err != nil {
		appLog.Error("briefing failed", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assistantResponse{Text: text})
}

// POST /api/assistant/chat {"message": "..."}
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant backend not configured")
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "empty message")
		return
	}

	text, err := s.ai.Chat(r.Context(), req.Message)
	if err != nil {
		appLog.Error("chat failed", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assistantResponse{Text: text})
}

// POST /api/assistant/translate {"text": "...", "target": "ko"}
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant backend not configured")
		return
	}

	var req struct {
		Text   string `json:"text"`
		Target string `json:"target"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "empty text")
		return
	}

	text, err := s.ai.Translate(r.Context(), req.Text, req.Target)
	if err != nil {
		appLog.Error("translate failed", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assistantResponse{Text: text})
}

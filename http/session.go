package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/leadscout"
)

// eventBuffer bounds the progress events queued between the harvest and the
// hub.
const eventBuffer = 16

// connectedMessage is the first payload of every event stream.
var connectedMessage = []byte(`{"status":"connected","message":"SSE connection established"}`)

// StreamMessage is the payload of a server-sent progress event.
type StreamMessage struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Page      int    `json:"page,omitempty"`
	Collected int    `json:"collected,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// NewStreamMessage converts a harvest event to its stream payload.
func NewStreamMessage(e leadscout.Event) StreamMessage {
	msg := StreamMessage{
		Status:    string(e.Type),
		Message:   e.Message,
		Page:      e.Page,
		Collected: e.Collected,
	}
	if e.Type == leadscout.EventCompleted {
		leads := e.Leads
		if leads == nil {
			leads = []leadscout.Lead{}
		}
		msg.Data = leads
	}
	return msg
}

type loginResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ManualMode bool   `json:"manualMode"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	// The browser belongs to the session, not to this request.
	res, err := s.Sessions.BeginManualAuth(s.ctx)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Success:    true,
		Message:    res.Message,
		ManualMode: res.ManualMode,
	})
}

// handleEvents streams progress events for a session ID until the client
// goes away or the server shuts down.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		s.Error(w, r, leadscout.Errorf(leadscout.EINVALID, "Session ID is required."))
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := s.hub.Subscribe(sessionID)
	defer s.hub.Unsubscribe(sessionID, ch)

	if err := writeEvent(w, rc, connectedMessage); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			if err := writeEvent(w, rc, msg); err != nil {
				return
			}
		}
	}
}

func writeEvent(w io.Writer, rc *http.ResponseController, msg []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
		return err
	}
	return rc.Flush()
}

type startRequest struct {
	Filters   leadscout.Filter `json:"filters"`
	SessionID string           `json:"sessionId"`
}

func (s *Server) handleStartHarvest(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.Error(w, r, err)
		return
	}
	if req.SessionID == "" {
		s.Error(w, r, leadscout.Errorf(leadscout.EINVALID, "Session ID is required."))
		return
	}
	if err := req.Filters.Validate(); err != nil {
		s.Error(w, r, err)
		return
	}
	if s.Sessions.Status().Harvesting || !s.harvesting.CompareAndSwap(false, true) {
		s.Error(w, r, leadscout.Errorf(leadscout.ECONFLICT, "A harvest is already running."))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.harvesting.Store(false)
		s.harvest(req.SessionID, req.Filters)
	}()

	writeJSON(w, http.StatusOK, outcome{Success: true, Message: "Scraping started"})
}

// harvest runs one harvest, forwarding its events to the session's streams
// and archiving the outcome.
func (s *Server) harvest(sessionID string, filter leadscout.Filter) {
	events := make(chan leadscout.Event, eventBuffer)
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for e := range events {
			s.publish(sessionID, NewStreamMessage(e))
		}
	}()

	started := s.now()
	leads, err := s.Sessions.Harvest(s.ctx, filter, events)
	close(events)
	<-forwarded

	if err != nil {
		s.Logger.Warn("harvest failed", "sessionId", sessionID, "leads", len(leads), "err", err)
		// Failures detected before the harvest started emit no event.
		if code := leadscout.ErrorCode(err); code == leadscout.ECONFLICT || code == leadscout.EINVALID {
			s.publish(sessionID, StreamMessage{Status: string(leadscout.EventError), Message: leadscout.ErrorMessage(err)})
		}
	}
	s.archive(sessionID, filter, leads, err, started)
}

func (s *Server) publish(sessionID string, msg StreamMessage) {
	buf, err := json.Marshal(msg)
	if err != nil {
		s.Logger.Error("encoding event", "err", err)
		return
	}
	s.hub.Publish(sessionID, buf)
}

func (s *Server) archive(sessionID string, filter leadscout.Filter, leads []leadscout.Lead, harvestErr error, started time.Time) {
	if s.Runs == nil {
		return
	}
	run := leadscout.NewRun(sessionID, filter, leads, harvestErr, started, s.now())
	// The server context may already be cancelled on shutdown.
	ctx := context.WithoutCancel(s.ctx)
	if err := s.Runs.CreateRun(ctx, run); err != nil {
		s.Logger.Error("archiving run", "sessionId", sessionID, "err", err)
		return
	}
	s.Logger.Info("run archived", "id", run.ID, "leads", run.LeadCount, "status", run.Status)
}

type stopRequest struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleStopHarvest(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.Error(w, r, leadscout.Errorf(leadscout.EINVALID, "Invalid JSON body."))
		return
	}
	if err := s.Sessions.Stop(); err != nil {
		s.Error(w, r, err)
		return
	}
	s.Logger.Info("harvest stopped", "sessionId", req.SessionID)
	writeJSON(w, http.StatusOK, outcome{Success: true, Message: "Scraping stopped"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.Status())
}

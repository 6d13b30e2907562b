package http

import (
	"net/http"
	"strconv"

	"github.com/fwojciec/leadscout"
)

// defaultRunLimit caps run listings when the client gives no limit.
const defaultRunLimit = 50

func (s *Server) handleRunIndex(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		s.Error(w, r, leadscout.Errorf(leadscout.EUNAVAILABLE, "Run archive is not configured."))
		return
	}

	filter := leadscout.RunFilter{Limit: defaultRunLimit}
	q := r.URL.Query()
	if v := q.Get("sessionId"); v != "" {
		filter.SessionID = &v
	}
	if v := q.Get("profileUrl"); v != "" {
		filter.ProfileURL = &v
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit"), defaultRunLimit); err != nil {
		s.Error(w, r, err)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset"), 0); err != nil {
		s.Error(w, r, err)
		return
	}

	runs, err := s.Runs.FindRuns(r.Context(), filter)
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Runs []*leadscout.Run `json:"runs"`
	}{Runs: runs})
}

func (s *Server) handleRunView(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		s.Error(w, r, leadscout.Errorf(leadscout.EUNAVAILABLE, "Run archive is not configured."))
		return
	}

	run, err := s.Runs.FindRunByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, leadscout.Errorf(leadscout.EINVALID, "Invalid number %q.", v)
	}
	return n, nil
}

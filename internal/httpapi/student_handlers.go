package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bunthoeuntok/salarean-sub000/internal/audit"
	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

type studentRequest struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type deleteRequest struct {
	Reason string `json:"reason,omitempty"`
}

type listStudentsResponse struct {
	Items []roster.Student `json:"items"`
	Count int              `json:"count"`
	AsOf  time.Time        `json:"as_of"`
}

func (r studentRequest) payload() roster.Payload {
	return roster.Payload{
		Code:     r.Code,
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
	}
}

func (a *API) handleStudentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listStudents(w, r)
	case http.MethodPost:
		a.createStudent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleStudentResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/students/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getStudent(w, r, id)
	case http.MethodPut:
		a.updateStudent(w, r, id)
	case http.MethodDelete:
		a.deleteStudent(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listStudents(w http.ResponseWriter, r *http.Request) {
	items, err := a.roster.ListOwned(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	if items == nil {
		items = []roster.Student{}
	}
	writeJSON(w, http.StatusOK, listStudentsResponse{
		Items: items,
		Count: len(items),
		AsOf:  time.Now().UTC(),
	})
}

func (a *API) getStudent(w http.ResponseWriter, r *http.Request, id string) {
	st, err := a.roster.GetOwned(r.Context(), id)
	if err != nil {
		handleRosterError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) createStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	st, err := a.roster.CreateOwned(r.Context(), req.payload())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "roster.student.create", map[string]any{
		"student_id": st.ID,
		"code":       st.Code,
	})

	w.Header().Set("Location", "/v1/students/"+st.ID)
	writeJSON(w, http.StatusCreated, st)
}

func (a *API) updateStudent(w http.ResponseWriter, r *http.Request, id string) {
	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	st, err := a.roster.UpdateOwned(r.Context(), id, req.payload())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "roster.student.update", map[string]any{
		"student_id": st.ID,
	})

	writeJSON(w, http.StatusOK, st)
}

func (a *API) deleteStudent(w http.ResponseWriter, r *http.Request, id string) {
	var req deleteRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	st, err := a.roster.DeleteOwned(r.Context(), id, strings.TrimSpace(req.Reason))
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "roster.student.delete", map[string]any{
		"student_id": st.ID,
		"reason":     st.DeleteReason,
	})

	writeJSON(w, http.StatusOK, st)
}

func (a *API) handleCacheReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	receipt, err := a.roster.ReloadCache(r.Context())
	if err != nil {
		handleRosterError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "roster.cache.reload", map[string]any{
		"reloaded_at": receipt.ReloadedAt.Format(time.RFC3339),
	})

	writeJSON(w, http.StatusOK, receipt)
}

// handleRosterError maps core failures to transport codes. NotFound keeps one
// shape whether the record is absent or foreign-owned; ErrUnauthorized never
// reaches this layer (the core translates it), but if it did it would still
// read as not found.
func handleRosterError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "invalid student payload")
	case errors.Is(err, roster.ErrDuplicateCode):
		writeError(w, r, http.StatusConflict, "student code already exists")
	case errors.Is(err, roster.ErrNotFound), errors.Is(err, roster.ErrUnauthorized):
		writeError(w, r, http.StatusNotFound, "student not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

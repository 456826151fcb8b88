package notes

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"notehub/cmd/identity/ids"
)

const maxNoteBodyBytes = 64 << 10

// UserIDFunc resolves the authenticated user for a request. It is installed
// by the auth gate; a false return means the request slipped past it and is
// treated as unauthorized.
type UserIDFunc func(r *http.Request) (string, bool)

// Handler serves the /notes CRUD surface.
type Handler struct {
	log    *slog.Logger
	store  Store
	userID UserIDFunc
	now    func() time.Time
}

// NewHandler constructs a notes Handler.
func NewHandler(log *slog.Logger, store Store, userID UserIDFunc) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if store == nil {
		return nil, errors.New("notes: nil store")
	}
	if userID == nil {
		return nil, errors.New("notes: nil user resolver")
	}
	return &Handler{
		log:    log,
		store:  store,
		userID: userID,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Register wires note routes onto the provided mux. The mux patterns carry
// the HTTP method, so handlers never re-check it.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("GET /notes", h.handleList)
	mux.HandleFunc("POST /notes", h.handleCreate)
	mux.HandleFunc("GET /notes/{id}", h.handleGet)
	mux.HandleFunc("PATCH /notes/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /notes/{id}", h.handleDelete)
}

type createNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

type updateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
}

type listResponse struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalNotes int    `json:"totalNotes"`
	TotalPages int    `json:"totalPages"`
	Notes      []Note `json:"notes"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing access token")
		return
	}

	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.store.List(r.Context(), userID, q)
	if err != nil {
		h.log.Error("notes.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Page:       res.Page,
		PerPage:    res.PerPage,
		TotalNotes: res.TotalNotes,
		TotalPages: res.TotalPages,
		Notes:      res.Notes,
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing access token")
		return
	}

	var req createNoteRequest
	if err := decodeJSON(w, r, maxNoteBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(title) > 255 {
		writeError(w, http.StatusBadRequest, "Title is too long")
		return
	}

	tag := DefaultTag
	if req.Tag != "" {
		tag = Tag(req.Tag)
		if !ValidTag(tag) {
			writeError(w, http.StatusBadRequest, "Tag must be one of the predefined values")
			return
		}
	}

	note, err := h.store.Create(r.Context(), CreateInput{
		UserID:  userID,
		Title:   title,
		Content: strings.TrimSpace(req.Content),
		Tag:     tag,
		Now:     h.now(),
	})
	if err != nil {
		h.log.Error("notes.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	h.log.Info("notes.create", "note_id", note.ID)
	writeJSON(w, http.StatusCreated, note)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.scope(w, r)
	if !ok {
		return
	}

	note, err := h.store.Get(r.Context(), userID, noteID)
	if err != nil {
		h.notFoundOrFail(w, "notes.get.fail", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.scope(w, r)
	if !ok {
		return
	}

	var req updateNoteRequest
	if err := decodeJSON(w, r, maxNoteBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == nil && req.Content == nil && req.Tag == nil {
		writeError(w, http.StatusBadRequest, "At least one field must be updated")
		return
	}

	in := UpdateInput{Now: h.now()}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		if len(title) > 255 {
			writeError(w, http.StatusBadRequest, "Title is too long")
			return
		}
		in.Title = &title
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		in.Content = &content
	}
	if req.Tag != nil {
		tag := Tag(*req.Tag)
		if !ValidTag(tag) {
			writeError(w, http.StatusBadRequest, "Tag must be one of the predefined values")
			return
		}
		in.Tag = &tag
	}

	note, err := h.store.Update(r.Context(), userID, noteID, in)
	if err != nil {
		h.notFoundOrFail(w, "notes.update.fail", err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.scope(w, r)
	if !ok {
		return
	}

	note, err := h.store.Delete(r.Context(), userID, noteID)
	if err != nil {
		h.notFoundOrFail(w, "notes.delete.fail", err)
		return
	}

	h.log.Info("notes.delete", "note_id", note.ID)
	writeJSON(w, http.StatusOK, note)
}

// scope resolves the authenticated user and the note id path parameter.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (userID, noteID string, ok bool) {
	userID, authed := h.userID(r)
	if !authed {
		writeError(w, http.StatusUnauthorized, "Missing access token")
		return "", "", false
	}

	noteID = r.PathValue("id")
	if !ids.IsULID(noteID) {
		writeError(w, http.StatusBadRequest, "Invalid id format")
		return "", "", false
	}
	return userID, noteID, true
}

func (h *Handler) notFoundOrFail(w http.ResponseWriter, event string, err error) {
	if errors.Is(err, ErrNoteNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return
	}
	h.log.Error(event, "err", err)
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}

func parseListQuery(r *http.Request) (ListQuery, error) {
	q := ListQuery{}
	vals := r.URL.Query()

	if v := vals.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListQuery{}, errors.New("Page must be a number")
		}
		q.Page = n
	}
	if v := vals.Get("perPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListQuery{}, errors.New("PerPage must be a number")
		}
		q.PerPage = n
	}
	if v := vals.Get("tag"); v != "" {
		tag := Tag(v)
		if !ValidTag(tag) {
			return ListQuery{}, errors.New("Tag must be one of the predefined values")
		}
		q.Tag = tag
	}
	q.Search = vals.Get("search")

	return q.Normalize(), nil
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nhle/todoboard/internal/model"
	"github.com/nhle/todoboard/internal/store"
)

type createTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
}

// updateTodoRequest carries a partial update; nil fields are untouched.
type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Position    *int    `json:"position"`
	Section     *string `json:"section"`
}

type reorderRequest struct {
	Todos []struct {
		ID string `json:"id"`
	} `json:"todos"`
}

// handleListTodos returns the caller's todos ordered by position.
// Optional query parameters: section, q (title/description search),
// limit, offset. The X-Total-Count header carries the unpaginated match
// count.
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	filter, ok := todoFilterFromQuery(w, r)
	if !ok {
		return
	}

	count, err := s.store.GetTodoCount(r.Context(), userID(r), store.TodoFilter{
		Section: filter.Section,
		Query:   filter.Query,
	})
	if err != nil {
		s.log.Error("counting todos", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while fetching todos")
		return
	}

	todos, err := s.store.GetTodos(r.Context(), userID(r), filter)
	if err != nil {
		s.log.Error("listing todos", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while fetching todos")
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(count))
	writeJSON(w, http.StatusOK, todos)
}

// todoFilterFromQuery parses list query parameters, writing a 400 and
// returning ok=false on invalid input.
func todoFilterFromQuery(w http.ResponseWriter, r *http.Request) (store.TodoFilter, bool) {
	var filter store.TodoFilter
	q := r.URL.Query()

	if v := q.Get("section"); v != "" {
		if v != model.SectionPending && v != model.SectionCompleted {
			writeMessage(w, http.StatusBadRequest, "Invalid section")
			return filter, false
		}
		filter.Section = &v
	}
	if v := q.Get("q"); v != "" {
		filter.Query = &v
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &filter.Limit},
		{"offset", &filter.Offset},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeMessage(w, http.StatusBadRequest, "Invalid "+p.name)
			return filter, false
		}
		*p.dst = n
	}

	return filter, true
}

// handleCreateTodo appends a new todo to the end of the caller's list.
// A supplied date becomes the todo's createdAt, which doubles as its
// calendar date.
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}

	todo := model.Todo{
		UserID:      userID(r),
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Date != nil {
		todo.CreatedAt = *req.Date
	}

	created, err := s.store.CreateTodo(r.Context(), todo)
	if err != nil {
		s.log.Error("creating todo", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while creating the todo")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetTodo returns a single todo owned by the caller.
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.ownedTodo(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// handleUpdateTodo applies a partial update. Whenever completed is
// supplied the section is derived from it, overriding any
// client-supplied section; a section supplied alone drives completed
// the other way so the two never disagree.
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.ownedTodo(w, r)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeMessage(w, http.StatusBadRequest, "Title is required")
			return
		}
		todo.Title = *req.Title
	}
	if req.Description != nil {
		todo.Description = *req.Description
	}
	if req.Position != nil {
		todo.Position = *req.Position
	}
	switch {
	case req.Completed != nil:
		todo.Completed = *req.Completed
		todo.Section = model.SectionFor(*req.Completed)
	case req.Section != nil:
		if *req.Section != model.SectionPending && *req.Section != model.SectionCompleted {
			writeMessage(w, http.StatusBadRequest, "Invalid section")
			return
		}
		todo.Section = *req.Section
		todo.Completed = *req.Section == model.SectionCompleted
	}

	if err := s.store.UpdateTodo(r.Context(), *todo); err != nil {
		s.log.Error("updating todo", "id", todo.ID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while updating the todo")
		return
	}

	updated, err := s.store.GetTodoByID(r.Context(), todo.ID)
	if err != nil {
		s.log.Error("reloading updated todo", "id", todo.ID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while updating the todo")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteTodo removes a todo owned by the caller.
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	todo, ok := s.ownedTodo(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteTodo(r.Context(), todo.ID); err != nil {
		s.log.Error("deleting todo", "id", todo.ID, "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while deleting the todo")
		return
	}
	writeMessage(w, http.StatusOK, "Todo deleted successfully")
}

// handleReorderTodos rewrites positions so each todo's position equals
// its index in the submitted array. Updates are owner-scoped.
func (s *Server) handleReorderTodos(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Todos == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request format. Expected array of todos.")
		return
	}

	ids := make([]string, 0, len(req.Todos))
	for _, t := range req.Todos {
		if t.ID == "" {
			writeMessage(w, http.StatusBadRequest, "Invalid request format. Expected array of todos.")
			return
		}
		ids = append(ids, t.ID)
	}

	if err := s.store.ReorderTodos(r.Context(), userID(r), ids); err != nil {
		s.log.Error("reordering todos", "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while reordering todos")
		return
	}
	writeMessage(w, http.StatusOK, "Todos reordered successfully")
}

// ownedTodo loads the {id} todo and enforces ownership: 404 when the
// todo does not exist, 401 when it belongs to another user. This split
// is applied uniformly across the id routes.
func (s *Server) ownedTodo(w http.ResponseWriter, r *http.Request) (*model.Todo, bool) {
	id := mux.Vars(r)["id"]

	todo, err := s.store.GetTodoByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Todo not found")
			return nil, false
		}
		s.log.Error("loading todo", "id", id, "err", err)
		writeMessage(w, http.StatusInternalServerError, "An error occurred while fetching the todo")
		return nil, false
	}

	if todo.UserID != userID(r) {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return todo, true
}

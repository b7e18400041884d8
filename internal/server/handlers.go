package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

const maxBody = 1 << 20

// TimeResponse is the body of GET /api/time.
type TimeResponse struct {
	Minutes int    `json:"minutes"`
	Spec    string `json:"spec"`
}

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	vm := viewmodel.NewListViewModel(s.fetcher, viewmodel.WithLogger(s.log))
	if err := vm.Load(r.Context()); err != nil {
		s.writeLoadError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(vm.Recipes.Get())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	vm := s.recipeViewModel(chi.URLParam(r, "id"))
	if err := vm.Load(r.Context()); err != nil {
		s.writeLoadError(w, err)
		return
	}
	if err := vm.Validate(); err != nil {
		s.log.Error("recipe %s: %v", vm.ID, err)
		s.writeError(w, http.StatusBadGateway, "stored recipe has an unreadable duration")
		return
	}
	s.writeJSON(w, http.StatusOK, vm.ToJSON())
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	if !s.opts.AllowWrites {
		s.writeError(w, http.StatusForbidden, "writes are disabled")
		return
	}
	id := chi.URLParam(r, "id")
	if err := domain.ValidateID(id); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var doc domain.Recipe
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid recipe document: "+err.Error())
		return
	}
	if err := s.validate.Struct(doc); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	vm := s.recipeViewModel(id)
	vm.AcceptData(doc)
	if err := vm.Save(r.Context(), s.store); err != nil {
		if errors.Is(err, duration.ErrMalformedDuration) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.log.Error("saving recipe %s: %v", id, err)
		s.writeError(w, http.StatusInternalServerError, "could not save recipe")
		return
	}
	s.metrics.recipesSaved.Inc()
	s.log.Info("saved recipe %s", id)
	s.writeJSON(w, http.StatusOK, vm.ToJSON())
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Has("minutes"):
		m, err := strconv.Atoi(strings.TrimSpace(q.Get("minutes")))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "minutes must be an integer")
			return
		}
		s.writeJSON(w, http.StatusOK, TimeResponse{Minutes: m, Spec: duration.FromMinutes(m)})
	case q.Has("spec"):
		m, err := duration.ParseMinutes(q.Get("spec"))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, TimeResponse{Minutes: m, Spec: duration.FromMinutes(m)})
	default:
		s.writeError(w, http.StatusBadRequest, "pass minutes or spec")
	}
}

func (s *Server) recipeViewModel(id string) *viewmodel.RecipeViewModel {
	return viewmodel.NewRecipeViewModel(id, s.fetcher,
		viewmodel.WithPathPrefix(s.opts.DetailPrefix),
		viewmodel.WithLogger(s.log))
}

func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "recipe not found")
	default:
		s.log.Error("%v", err)
		s.writeError(w, http.StatusBadGateway, "could not load document")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: true, Message: message, Code: status})
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}

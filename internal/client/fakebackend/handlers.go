package fakebackend

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[req.Email]
	if !ok || acc.password != req.Password {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": s.issue(acc.user, s.TokenTTL)})
}

// currentUser resolves the bearer credential. Caller holds s.mu.
func (s *Server) currentUser(r *http.Request) (models.User, string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return models.User{}, "", false
	}
	_, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.User{}, "", false
	}
	u, ok := s.sessions[token]
	return u, token, ok
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, _, ok := s.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, token, ok := s.currentUser(r); ok {
		delete(s.sessions, token)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	perPage := atoiDefault(q.Get("perPage"), defaultPerPage)
	hydrate := slices.Contains(strings.Split(q.Get("relations"), ","), "contributor")

	s.mu.Lock()
	items := append([]models.Variety(nil), s.varieties...)
	users := make(map[models.ID]models.User, len(s.accounts))
	for _, a := range s.accounts {
		users[a.user.ID] = a.user
	}
	s.mu.Unlock()

	if q.Get("orderBy") == "createdAt" {
		desc := strings.EqualFold(q.Get("order"), "desc")
		slices.SortStableFunc(items, func(a, b models.Variety) int {
			if desc {
				return b.CreatedAt.Compare(a.CreatedAt)
			}
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	}

	for i := range items {
		if items[i].Contributor == nil {
			continue
		}
		if !hydrate {
			items[i].Contributor = nil
			continue
		}
		if u, ok := users[items[i].Contributor.ID]; ok {
			u.Email = ""
			items[i].Contributor = &u
		}
	}

	total := len(items)
	lastPage := max(1, (total+perPage-1)/perPage)
	from := min(total, (page-1)*perPage)
	to := min(total, from+perPage)

	writeJSON(w, http.StatusOK, map[string]any{
		"data":        items[from:to],
		"currentPage": page,
		"lastPage":    lastPage,
		"total":       total,
		"perPage":     perPage,
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	user, _, ok := s.currentUser(r)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, []string{"name should not be empty"})
		return
	}

	v := models.Variety{
		VarietyFields: models.VarietyFields{
			Name:        name,
			Description: r.FormValue("description"),
			Origin:      r.FormValue("origin"),
			Color:       models.Color(r.FormValue("color")),
			BestFor:     r.FormValue("bestFor"),
		},
		Contributor: &models.User{ID: user.ID},
	}

	var upload []byte
	if file, _, err := r.FormFile("image"); err == nil {
		upload, err = io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable image")
			return
		}
	}

	s.mu.Lock()
	s.nextID++
	v.ID = models.ID(fmt.Sprintf("v%d", s.nextID))
	v.CreatedAt = s.tick()
	if upload != nil {
		s.uploads[v.ID] = upload
		v.Image = models.Image{
			"thumbnail": fmt.Sprintf("/storage/%s-thumbnail.jpg", v.ID),
			"medium":    fmt.Sprintf("/storage/%s-medium.jpg", v.ID),
		}
	}
	s.varieties = append(s.varieties, v)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, v)
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

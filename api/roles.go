package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/garnizeh/offerdesk/pkg/models"
	"github.com/garnizeh/offerdesk/pkg/repository"
	"github.com/gorilla/mux"
)

type RolesHandler struct {
	roles   repository.RoleRepo
	schemas *Schemas
}

func NewRolesHandler(roles repository.RoleRepo, schemas *Schemas) *RolesHandler {
	return &RolesHandler{roles: roles, schemas: schemas}
}

func (h *RolesHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roles.ListRoles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if roles == nil {
		roles = []models.Role{}
	}
	writeJSON(w, roles, http.StatusOK)
}

// Upsert replaces the catalog entry named in the path.
func (h *RolesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	body, err := readBody(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.schemas.Validate(r.Context(), "role", body); err != nil {
		writeError(w, err)
		return
	}
	var role models.Role
	if err := json.Unmarshal(body, &role); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	role.Name = name
	if err := h.roles.UpsertRole(r.Context(), &role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, role, http.StatusOK)
}

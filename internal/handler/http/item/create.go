package item

import (
	"encoding/json"
	"net/http"

	"itemkeeper/internal/handler/http/respond"
	itemUC "itemkeeper/internal/usecase/item"
)

type CreateHandler struct{ Svc *itemUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	e, err := h.Svc.Create(r.Context(), itemUC.CreateInput{Name: req.Name})
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusCreated, DTO{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt})
}

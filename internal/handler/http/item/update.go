package item

import (
	"encoding/json"
	"errors"
	"net/http"

	"itemkeeper/internal/handler/http/respond"
	itemUC "itemkeeper/internal/usecase/item"
)

type UpdateHandler struct{ Svc *itemUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.Update(r.Context(), itemUC.UpdateInput{ID: id, Name: req.Name}); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, itemUC.ErrItemNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

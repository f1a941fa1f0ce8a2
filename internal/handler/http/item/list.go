package item

import (
	"net/http"

	"itemkeeper/internal/handler/http/respond"
	itemUC "itemkeeper/internal/usecase/item"
)

type ListHandler struct{ Svc *itemUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, e := range list {
		out = append(out, DTO{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt})
	}
	respond.JSON(w, http.StatusOK, out)
}

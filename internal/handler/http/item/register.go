package item

import (
	"net/http"

	itemUC "itemkeeper/internal/usecase/item"
)

// Register registers all item-related HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *itemUC.Service) {
	mux.Handle("GET /items", ListHandler{svc})
	mux.Handle("GET /items/{id}", GetHandler{svc})
	mux.Handle("POST /items", CreateHandler{svc})
	mux.Handle("PUT /items/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /items/{id}", DeleteHandler{svc})
}

package handlers

import (
	"log"
	"net/http"

	"dutytrack-backend/internal/store"
	"dutytrack-backend/pkg/utils"
)

// SearchStores returns the stores whose name contains the query,
// case-insensitive. An empty or missing query matches every store.
// GET /stores?name=...
func SearchStores(directory store.StoreDirectory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")

		stores, err := directory.Search(r.Context(), name)
		if err != nil {
			log.Printf("❌ Error fetching stores: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Error fetching stores")
			return
		}

		utils.RespondJSON(w, http.StatusOK, stores)
	}
}

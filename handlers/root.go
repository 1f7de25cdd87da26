package handlers

import (
	"net/http"

	"github.com/upb/drivel-server/utils"
)

// HandleRoot handles GET /
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, map[string]string{"Hello": "World"})
}

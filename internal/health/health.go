// Package health exposes the liveness endpoint used by container
// orchestrators. It deliberately has no dependency on configuration or the
// storage client: liveness means "the process serves HTTP", nothing more.
package health

import (
	"net/http"
	"time"

	"github.com/s3drop/service/internal/response"
)

// Status is the liveness payload.
type Status struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Handler godoc
//
//	@Summary		Liveness check
//	@Description	Returns 200 while the process is able to serve HTTP. Never touches storage.
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	Status
//	@Router			/health [get]
func Handler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, Status{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"reservo/pkg/config"
	pkghttp "reservo/pkg/http"
)

const healthCheckTimeout = 2 * time.Second

type healthStatus struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
}

// HealthCheck reports liveness plus a Mongo ping, so orchestrators can tell
// "process up" apart from "dependencies reachable".
func HealthCheck(cfg *config.Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := cfg.Client.Mongo.Ping(ctx, readpref.Primary()); err != nil {
			pkghttp.WriteJSON(w, http.StatusServiceUnavailable, healthStatus{Status: "degraded", Mongo: "unreachable"})
			return
		}
		pkghttp.WriteJSON(w, http.StatusOK, healthStatus{Status: "ok", Mongo: "ok"})
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/peteruche21/tailwind-packages/utils"
)

// Initialize serves /metrics on port in the background.
func Initialize(port string) *http.Server {
	mux := http.NewServeMux()
	// Metrics have to be registered to be exposed:
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			utils.ErrorLog(err)
		}
	}()
	return srv
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"gwansang-demo/internal/infrastructure/metrics"
)

func NewRouter(handler *PhysiognomyHandler, limiter *rate.Limiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)

	r.HandleFunc("/", handler.HandleIndex).Methods("GET")
	r.HandleFunc("/healthz", handler.HandleHealth).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	limited := RateLimit(limiter)
	r.Handle("/analyze", limited(http.HandlerFunc(handler.HandleAnalyze))).Methods("POST")
	r.Handle("/api/analyze", limited(http.HandlerFunc(handler.HandleAnalyzeAPI))).Methods("POST")

	return r
}

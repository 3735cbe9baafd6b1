// Package api exposes the bot core over a thin JSON ingest endpoint.
//
// It stands in for the messaging transport: a real channel adapter
// (webhook receiver, chat gateway) decodes its platform's events into
// the same inbound shape and renders the symbolic menus in the replies.
// No signature verification happens here; that is the adapter's job.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kotan/tally/internal/bot"
)

// API routes inbound events to the bot.
type API struct {
	router *mux.Router
	bot    *bot.Bot
}

// New builds the router.
func New(b *bot.Bot) *API {
	a := &API{
		router: mux.NewRouter(),
		bot:    b,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(traceIDMiddleware)
	a.router.Use(loggingMiddleware)

	a.router.HandleFunc("/v1/events", a.handleEvent).Methods("POST")
	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// Handler returns the root http.Handler.
func (a *API) Handler() http.Handler {
	return a.router
}

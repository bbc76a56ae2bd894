package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	router.Route("/api/databases", func(r chi.Router) {
		r.Get("/", h.listDatabases)
		r.Post("/", h.createDatabase)

		r.Route("/{name}", func(r chi.Router) {
			r.Delete("/", h.deleteDatabase)
			r.Post("/switch", h.switchDatabase)
			r.Post("/rename/{newName}", h.renameDatabase)
			r.Post("/union", h.unionTables)

			r.Route("/tables", func(r chi.Router) {
				r.Get("/", h.listTables)
				r.Post("/", h.createTable)
				r.Get("/{table}", h.getTable)
				r.Delete("/{table}", h.dropTable)
				r.Post("/{table}/rows", h.insertRow)
			})

			r.Route("/sync", func(r chi.Router) {
				r.Post("/start", h.startSync)
				r.Post("/stop", h.stopSync)
				r.Get("/status", h.syncStatus)
			})

			r.Route("/drive", func(r chi.Router) {
				r.Post("/save", h.saveToDrive)
				r.Post("/load", h.loadFromDrive)
			})
		})
	})

	router.Get("/api/drive/files", h.listDriveFiles)

	router.Route("/api/auth", func(r chi.Router) {
		r.Get("/status", h.authStatus)
		r.Post("/device/start", h.startDeviceAuth)
		r.Post("/device/poll", h.pollDeviceAuth)
		r.Post("/loopback/start", h.startLoopbackAuth)
		r.Get("/loopback/poll/{state}", h.pollLoopbackAuth)
		r.Post("/loopback/complete", h.completeLoopbackAuth)
	})

	// the identity provider redirects the user's browser here
	router.Get("/oauth/callback", h.oauthCallback)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

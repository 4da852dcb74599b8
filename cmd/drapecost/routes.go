package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "drapecost/http-server/admin/get"
	saveadmin "drapecost/http-server/admin/save"
	upadmin "drapecost/http-server/admin/update"
	"drapecost/http-server/estimate"
	getfabrics "drapecost/http-server/fabrics/get"
	generate_excel "drapecost/http-server/generate-report/generate-excel"
	getleftovers "drapecost/http-server/leftovers/get"
	saveleftovers "drapecost/http-server/leftovers/save"
	savequote "drapecost/http-server/quotes/save"
	gettemplate "drapecost/http-server/template/get"
	savetemplate "drapecost/http-server/template/save"
	uptemplate "drapecost/http-server/template/update"
	"drapecost/internal/config"
	"drapecost/internal/middleware/auth"
	"drapecost/internal/service"
	genexcel "drapecost/internal/service/generate-excel"
	gridimport "drapecost/internal/service/grid-import"
	"drapecost/internal/storage/mysql"
)

type services struct {
	estimates *service.EstimateService
	quotes    *service.QuoteService
	grids     *gridimport.ImportService
	reports   *genexcel.GenerateExcelService
}

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/estimate", estimate.Estimate(log, svc.estimates))

	router.Get("/api/leftovers/suggest", getleftovers.SuggestLeftovers(log, svc.estimates))
	router.Post("/api/leftovers", saveleftovers.SaveLeftover(log, storage))

	router.Get("/api/templates", gettemplate.GetAllTemplates(log, storage))
	router.Get("/api/template", gettemplate.GetTemplatesByCode(log, storage))

	router.Get("/api/fabrics", getfabrics.GetFabrics(log, storage))

	router.Post("/api/quotes", savequote.SaveQuote(log, svc.quotes))

	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, svc.reports))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/template/new", savetemplate.SaveTemplateAdmin(log, storage))
	adminRouter.Put("/template/update/{code}", uptemplate.UpdateTemplateAdmin(log, storage))
	adminRouter.Post("/grids/upload", saveadmin.UploadGridAdmin(log, svc.grids))
	adminRouter.Get("/grids/{id}", getadmin.GetGridAdmin(log, storage))
	adminRouter.Get("/settings", getadmin.GetSettingsAdmin(log, storage, cfg.Defaults))
	adminRouter.Put("/settings", upadmin.UpdateSettingsAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	mountFrontend(router, cfg, log)

	return router
}

// mountFrontend serves a built SPA when one is present. The API works
// without it.
func mountFrontend(router *chi.Mux, cfg config.Config, log *slog.Logger) {
	frontendDir := cfg.FrontendDir
	if frontendDir == "" {
		return
	}
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("frontend directory not found, serving API only", slog.String("path", frontendDir))
		return
	}

	fileServer := http.FileServer(http.Dir(frontendDir))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).Handle("/admin/*",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
		}),
	)

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})
}

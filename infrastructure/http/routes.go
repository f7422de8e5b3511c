package http

import (
	"github.com/go-chi/chi/v5"

	exportspage "stocktaker/frontend/exports"
	"stocktaker/frontend/login"
	"stocktaker/frontend/stocktake"
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.SessionCache, s.Keeper, login.ValidateShopCredentials))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache, s.Pipelines))
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	r.Get("/stocktake", stocktake.StocktakePageQueryHandler(s.DB))

	r.Post("/api/stocktake/scans", stocktake.SubmitScanCommandHandler(s.Pipelines))
	r.Get("/api/stocktake/state", stocktake.ScanStateQueryHandler(s.Pipelines))
	r.Post("/api/stocktake/choice", stocktake.ChooseMatchCommandHandler(s.Pipelines))
	r.Post("/api/stocktake/choice/cancel", stocktake.CancelChoiceCommandHandler(s.Pipelines))
	r.Post("/api/stocktake/error/dismiss", stocktake.DismissErrorCommandHandler(s.Pipelines))
	r.Post("/api/stocktake/camera/frames", stocktake.CameraFrameCommandHandler(s.Pipelines))
	r.Get("/api/stocktake/session/items", stocktake.SessionItemsQueryHandler(s.DB))
	r.Post("/api/stocktake/session/clear", stocktake.ClearSessionCommandHandler(s.DB, s.Audit))

	s.RegisterExportRoutes(r)
	return r
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	r.Get("/exports", exportspage.ExportsPageQueryHandler())
	r.Get("/exports/session.csv", exportspage.SessionExportCSVHandler(s.DB))
	r.Get("/exports/session.pdf", exportspage.SessionReportPDFHandler(s.DB))
}

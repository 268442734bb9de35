package router

import (
	"github.com/logistics/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler mounted under the versioned API
type Handlers struct {
	Auth        *handler.AuthHandler
	Tenant      *handler.TenantHandler
	User        *handler.UserHandler
	Shipment    *handler.ShipmentHandler
	Request     *handler.RequestHandler
	Status      *handler.StatusHandler
	Ledger      *handler.LedgerHandler
	Article     *handler.ArticleHandler
	Calculation *handler.CalculationHandler
	Analytics   *handler.AnalyticsHandler
	Mail        *handler.MailHandler
	System      *handler.SystemHandler
}

// DomainGroups builds the route groups of the API. Role checks live in the
// services, so the groups carry no per-route permission middleware.
func DomainGroups(h Handlers) []RouteRegistrar {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.GET("/me", h.Auth.Me)

	tenants := NewDomainGroup("tenants", "/tenants")
	tenants.GET("", h.Tenant.List)
	tenants.POST("", h.Tenant.Create)
	tenants.GET("/:id", h.Tenant.Get)

	users := NewDomainGroup("users", "/users")
	users.POST("", h.User.Create)
	users.GET("/roles", h.User.AssignableRoles)
	users.GET("/clients", h.User.Clients)

	shipments := NewDomainGroup("shipments", "/shipments")
	shipments.GET("", h.Shipment.List)
	shipments.POST("", h.Shipment.Create)
	shipments.GET("/:id", h.Shipment.Get)
	shipments.PUT("/:id", h.Shipment.Update)
	shipments.DELETE("/:id", h.Shipment.Delete)
	shipments.POST("/:id/transition", h.Shipment.Transition)
	shipments.GET("/:id/folders", h.Shipment.Folders)
	shipments.POST("/:id/folders", h.Shipment.CreateFolder)
	shipments.GET("/:id/files", h.Shipment.Files)
	shipments.POST("/:id/files", h.Shipment.UploadFile)

	shipmentFolders := NewDomainGroup("shipment-folders", "/shipment-folders")
	shipmentFolders.DELETE("/:id", h.Shipment.DeleteFolder)

	shipmentFiles := NewDomainGroup("shipment-files", "/shipment-files")
	shipmentFiles.GET("/:id/download", h.Shipment.DownloadFile)
	shipmentFiles.DELETE("/:id", h.Shipment.DeleteFile)

	requests := NewDomainGroup("requests", "/requests")
	requests.GET("", h.Request.List)
	requests.POST("", h.Request.Create)
	requests.GET("/:id", h.Request.Get)
	requests.PUT("/:id", h.Request.Update)
	requests.DELETE("/:id", h.Request.Delete)
	requests.POST("/:id/transition", h.Request.Transition)
	requests.PUT("/:id/shipment", h.Request.AssignShipment)
	requests.GET("/:id/files", h.Request.Files)
	requests.POST("/:id/files", h.Request.UploadFile)

	requestFiles := NewDomainGroup("request-files", "/request-files")
	requestFiles.GET("/:id/download", h.Request.DownloadFile)
	requestFiles.DELETE("/:id", h.Request.DeleteFile)

	statuses := NewDomainGroup("statuses", "/statuses")
	statuses.GET("", h.Status.List)
	statuses.POST("", h.Status.Create)
	statuses.PUT("/default", h.Status.SetDefault)
	statuses.PUT("/order", h.Status.Reorder)
	statuses.GET("/:id", h.Status.Get)
	statuses.PUT("/:id", h.Status.Update)
	statuses.DELETE("/:id", h.Status.Delete)

	finance := NewDomainGroup("finance", "/finance")
	finance.GET("/balance", h.Ledger.Balance)
	finance.GET("/counterparty-balance", h.Ledger.CounterpartyBalance)
	finance.Group("ledger", "/ledger").
		GET("", h.Ledger.List).
		POST("", h.Ledger.Record).
		GET("/:id", h.Ledger.Get).
		PUT("/:id", h.Ledger.Update).
		DELETE("/:id", h.Ledger.Delete)
	finance.Group("articles", "/articles").
		GET("", h.Article.List).
		POST("", h.Article.Create).
		GET("/:id", h.Article.Get).
		PUT("/:id", h.Article.Rename).
		DELETE("/:id", h.Article.Delete)

	calculations := NewDomainGroup("calculations", "/calculations")
	calculations.GET("/by-shipment/:shipment_id", h.Calculation.ByShipment)
	calculations.GET("/:id", h.Calculation.Get)
	calculations.PUT("/:id", h.Calculation.Update)
	calculations.GET("/:id/related-requests", h.Calculation.RelatedRequests)
	calculations.POST("/:id/calculate-costs", h.Calculation.CalculateCosts)
	calculations.GET("/:id/expenses", h.Calculation.Expenses)

	analytics := NewDomainGroup("analytics", "/analytics")
	analytics.GET("/summary", h.Analytics.Summary)

	mail := NewDomainGroup("mail", "/mail")
	mail.POST("/send", h.Mail.Send)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)
	system.GET("/ping", h.System.Ping)

	return []RouteRegistrar{
		auth, tenants, users,
		shipments, shipmentFolders, shipmentFiles,
		requests, requestFiles,
		statuses, finance, calculations,
		analytics, mail, system,
	}
}

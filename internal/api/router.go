package api

import (
	"civic-request-report/internal/api/handler"
	"civic-request-report/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

func RegisterRoutes(r *router.Router) {
	r.POST("/api/v1/reports", handler.CreateReport)
	r.GET("/api/v1/reports", handler.ListReports)
	// More specific routes first
	r.GET("/api/v1/reports/*/results", handler.GetReportResults)
	r.GET("/api/v1/reports/*/quality", handler.GetReportQuality)
	r.GET("/api/v1/reports/*/errors", handler.GetReportErrors)
	// Generic report route last
	r.GET("/api/v1/reports/*", handler.GetReport)

	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}

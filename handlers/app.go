package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JaneshKapoor/nayraa/config"
	"github.com/JaneshKapoor/nayraa/services"
)

type App struct {
	Cfg     config.Config
	Reports services.ReportStore
}

func NewApp(cfg config.Config, reports services.ReportStore) *App {
	return &App{
		Cfg:     cfg,
		Reports: reports,
	}
}

// Health reports liveness plus a Firestore connectivity probe: a count of
// the reports collection, mirroring the startup diagnostic the app shipped
// with. A probe failure degrades the response but keeps the service "up".
func (a *App) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}

	count, err := a.Reports.CountReports(c.Request.Context())
	if err != nil {
		log.Printf("[health] firestore probe failed: %v", err)
		resp["firestore"] = "unreachable"
	} else {
		resp["firestore"] = "ok"
		resp["reports"] = count
	}

	c.JSON(http.StatusOK, resp)
}

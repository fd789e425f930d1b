// controller/health_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/revguard/api/util"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health reports liveness plus database reachability.
func (ctrl *HealthController) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	sqlDB, err := ctrl.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	util.Respond(c, code, "Health check", gin.H{"status": status})
}

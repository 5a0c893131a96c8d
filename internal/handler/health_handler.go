package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports liveness plus the state of the two backing stores.
func (h *HealthHandler) Check(c *gin.Context) {
	estado := gin.H{"status": "ok", "db": "ok", "redis": "ok"}
	code := http.StatusOK

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			estado["db"] = "down"
			estado["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			estado["redis"] = "down"
			estado["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, estado)
}

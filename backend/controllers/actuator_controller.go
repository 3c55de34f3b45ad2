package controllers

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ActuatorController struct {
	DB *gorm.DB
}

func NewActuatorController(db *gorm.DB) *ActuatorController {
	return &ActuatorController{DB: db}
}

type HealthComponent struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]HealthComponent `json:"components"`
}

// Health godoc
// @Summary Health check
// @Tags actuator
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /actuator/health [get]
func (ac *ActuatorController) Health(c *fiber.Ctx) error {
	db := ac.dbHealth(c.UserContext())

	status := fiber.StatusOK
	if db.Status != "UP" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(HealthResponse{
		Status:     db.Status,
		Components: map[string]HealthComponent{"db": db},
	})
}

func (ac *ActuatorController) dbHealth(ctx context.Context) HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	sqlDB, err := ac.DB.DB()
	if err != nil {
		return HealthComponent{Status: "DOWN", Details: map[string]string{"error": err.Error()}}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return HealthComponent{Status: "DOWN", Details: map[string]string{"error": err.Error()}}
	}

	stats := sqlDB.Stats()
	return HealthComponent{
		Status: "UP",
		Details: map[string]string{
			"database":         ac.DB.Dialector.Name(),
			"open_connections": strconv.Itoa(stats.OpenConnections),
			"in_use":           strconv.Itoa(stats.InUse),
			"idle":             strconv.Itoa(stats.Idle),
			"wait_count":       strconv.FormatInt(stats.WaitCount, 10),
			"wait_duration":    stats.WaitDuration.String(),
		},
	}
}

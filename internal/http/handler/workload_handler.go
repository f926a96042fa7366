package handler

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rahmatrdn/go-ch-insight/internal/usecase"
)

type WorkloadHandler struct {
	workloadUsecase usecase.WorkloadUsecase
}

func NewWorkloadHandler(workloadUsecase usecase.WorkloadUsecase) *WorkloadHandler {
	return &WorkloadHandler{
		workloadUsecase: workloadUsecase,
	}
}

func (h *WorkloadHandler) Register(app *fiber.App) {
	group := app.Group("/connections/:id/reports")
	group.Get("/workload-utilization", h.GetWorkloadUtilization)
	group.Get("/rejected-records", h.GetRejectedRecords)
}

func (h *WorkloadHandler) GetWorkloadUtilization(c *fiber.Ctx) error {
	connectionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid Connection ID")
	}

	refresh := c.Query("refresh") == "true"

	report, lastRefresh, err := h.workloadUsecase.GetUtilizationReport(c.Context(), connectionID, refresh)
	if err != nil {
		if err == usecase.ErrConnectionNotFound {
			return c.Status(fiber.StatusNotFound).SendString(err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	if c.Query("format") != "html" {
		return c.JSON(fiber.Map{
			"data":         report,
			"last_refresh": lastRefresh,
		})
	}

	// The template parses this client side, so it must be valid JSON.
	reportJSON, _ := json.Marshal(report)
	if len(reportJSON) == 0 {
		reportJSON = []byte("{}")
	}

	return c.Render("reports/workload", fiber.Map{
		"Report":       string(reportJSON),
		"ConnectionID": connectionID,
		"LastRefresh":  lastRefresh,
	}, "layouts/main")
}

func (h *WorkloadHandler) GetRejectedRecords(c *fiber.Ctx) error {
	connectionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid Connection ID")
	}

	records, err := h.workloadUsecase.GetRejectedRecords(c.Context(), connectionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	return c.JSON(fiber.Map{
		"data": records,
	})
}

package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rahmatrdn/go-ch-insight/entity"
	"github.com/rahmatrdn/go-ch-insight/internal/usecase"
)

type ConnectionHandler struct {
	connectionUsecase *usecase.ConnectionUsecase
}

func NewConnectionHandler(connectionUsecase *usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{connectionUsecase: connectionUsecase}
}

func (h *ConnectionHandler) Register(app *fiber.App) {
	group := app.Group("/connections")
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
	group.Post("/:id/test", h.Test)
}

func (h *ConnectionHandler) List(c *fiber.Ctx) error {
	conns, err := h.connectionUsecase.GetAllConnections(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	for _, conn := range conns {
		conn.Password = "" // never echo credentials
	}
	return c.JSON(fiber.Map{"data": conns})
}

func (h *ConnectionHandler) Create(c *fiber.Ctx) error {
	var conn entity.CHConnection
	if err := c.BodyParser(&conn); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}
	if err := validate.Struct(&conn); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	if err := h.connectionUsecase.CreateConnection(c.Context(), &conn); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	conn.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": conn})
}

func (h *ConnectionHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid Connection ID")
	}

	conn, err := h.connectionUsecase.GetConnection(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	if conn == nil {
		return c.Status(fiber.StatusNotFound).SendString("connection not found")
	}

	conn.Password = ""
	return c.JSON(fiber.Map{"data": conn})
}

func (h *ConnectionHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid Connection ID")
	}

	var conn entity.CHConnection
	if err := c.BodyParser(&conn); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid payload")
	}
	if err := validate.Struct(&conn); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": validationMessages(err),
		})
	}

	if err := h.connectionUsecase.UpdateConnection(c.Context(), id, &conn); err != nil {
		if err == usecase.ErrConnectionNotFound {
			return c.Status(fiber.StatusNotFound).SendString(err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}

	conn.Password = ""
	return c.JSON(fiber.Map{"data": conn})
}

func (h *ConnectionHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid Connection ID")
	}

	if err := h.connectionUsecase.DeleteConnection(c.Context(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ConnectionHandler) Test(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid Connection ID")
	}

	if err := h.connectionUsecase.TestConnection(c.Context(), id); err != nil {
		if err == usecase.ErrConnectionNotFound {
			return c.Status(fiber.StatusNotFound).SendString(err.Error())
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "offline", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "online"})
}

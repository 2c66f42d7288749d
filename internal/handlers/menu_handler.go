package handlers

import (
	"fmt"
	"strconv"

	"menusvc/internal/models"
	"menusvc/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Valid item IDs for DELETE; anything else gets the 404 page.
const (
	minItemID = 100
	maxItemID = 999
)

// MenuHandler handles HTTP requests for menu items.
type MenuHandler struct {
	service  *services.MenuService
	notFound fiber.Handler
}

// NewMenuHandler creates a new MenuHandler. notFound serves malformed DELETE ids.
func NewMenuHandler(service *services.MenuService, notFound fiber.Handler) *MenuHandler {
	return &MenuHandler{
		service:  service,
		notFound: notFound,
	}
}

// RegisterRoutes registers the menu item routes on router, which is expected
// to be mounted at the collection path (for example /items).
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleGetItems)
	router.Post("/", methodNotAllowed("Bulk POSTs not supported"))
	router.Put("/", methodNotAllowed("Bulk PUTs not supported"))
	router.Delete("/", methodNotAllowed("Bulk DELETEs not supported"))

	router.Get("/:id", methodNotAllowed("Single GETs not supported"))
	router.Post("/:id", h.HandleAddItem)
	router.Put("/:id", h.HandleUpdateItem)
	router.Delete("/:id", h.HandleDeleteItem)
}

func methodNotAllowed(message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return respondError(c, fiber.StatusMethodNotAllowed, message)
	}
}

// parseItem builds a validated item from the request body.
func parseItem(c *fiber.Ctx) (*models.MenuItem, error) {
	var fields models.MenuItemFields
	if err := c.BodyParser(&fields); err != nil {
		return nil, models.InvalidFields(err)
	}
	return fields.Build()
}

// HandleGetItems retrieves all menu items.
func (h *MenuHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems(c.UserContext())
	if err != nil {
		return respondInternalError(c, err)
	}
	return respondData(c, fiber.StatusOK, items)
}

// HandleAddItem creates the item described by the body. The body id wins over the path id.
func (h *MenuHandler) HandleAddItem(c *fiber.Ctx) error {
	item, err := parseItem(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	ok, err := h.service.AddItem(c.UserContext(), item)
	if err != nil {
		return respondInternalError(c, err)
	}
	if !ok {
		return respondError(c, fiber.StatusConflict, fmt.Sprintf("item %d already exists", item.ID))
	}
	return respondData(c, fiber.StatusCreated, true)
}

// HandleUpdateItem overwrites the item described by the body.
func (h *MenuHandler) HandleUpdateItem(c *fiber.Ctx) error {
	item, err := parseItem(c)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	ok, err := h.service.UpdateItem(c.UserContext(), item)
	if err != nil {
		return respondInternalError(c, err)
	}
	if !ok {
		return respondError(c, fiber.StatusNotFound, fmt.Sprintf("item %d does not exist", item.ID))
	}
	return respondData(c, fiber.StatusOK, true)
}

// HandleDeleteItem removes the item named by the path id.
func (h *MenuHandler) HandleDeleteItem(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < minItemID || id > maxItemID {
		return h.notFound(c)
	}

	placeholder, err := models.NewMenuItem(id, "XXX", "dummy", 1, false)
	if err != nil {
		return h.notFound(c)
	}

	ok, err := h.service.DeleteItem(c.UserContext(), placeholder)
	if err != nil {
		return respondInternalError(c, err)
	}
	if !ok {
		return respondError(c, fiber.StatusNotFound, fmt.Sprintf("item %d does not exist", id))
	}
	return respondData(c, fiber.StatusOK, true)
}

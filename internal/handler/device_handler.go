package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/middleware"
	"lapor-warga/internal/service/device"
)

type DeviceHandler struct {
	deviceService device.Service
}

func NewDeviceHandler(deviceService device.Service) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

func (h *DeviceHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterDeviceInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	registered, err := h.deviceService.Register(c.Context(), middleware.GetCurrentUserID(c), &input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(registered)
}

func (h *DeviceHandler) List(c *fiber.Ctx) error {
	devices, err := h.deviceService.List(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(devices)
}

func (h *DeviceHandler) Remove(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid device ID")
	}

	if err := h.deviceService.Remove(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

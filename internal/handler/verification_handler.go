package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/middleware"
	"lapor-warga/internal/service/verification"
)

type VerificationHandler struct {
	verificationService verification.Service
}

func NewVerificationHandler(verificationService verification.Service) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

func (h *VerificationHandler) Request(c *fiber.Ctx) error {
	var input domain.VerificationRequestInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	req, err := h.verificationService.Request(c.Context(), middleware.GetActor(c), &input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(req)
}

func (h *VerificationHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid verification request ID")
	}

	req, err := h.verificationService.Show(c.Context(), middleware.GetActor(c), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(req)
}

func (h *VerificationHandler) Decide(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid verification request ID")
	}

	var input domain.VerificationDecisionInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	req, err := h.verificationService.Decide(c.Context(), middleware.GetActor(c), id, &input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(req)
}

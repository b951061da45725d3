package handler

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lapor-warga/internal/domain"
	"lapor-warga/internal/middleware"
	"lapor-warga/internal/service/cases"
)

const (
	maxImageSize  = 5 * 1024 * 1024
	maxImageCount = 3
)

// CaseHandler serves one case kind; complaints and suggestions mount the same
// handler under different route groups.
type CaseHandler struct {
	caseService cases.Service
	kind        domain.CaseKind
}

func NewCaseHandler(caseService cases.Service, kind domain.CaseKind) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
		kind:        kind,
	}
}

func (h *CaseHandler) Create(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)

	input := domain.CreateCaseInput{
		Title:          c.FormValue("title"),
		Description:    c.FormValue("description"),
		DetailLocation: c.FormValue("detail_location"),
		GPSAddress:     c.FormValue("gps_address"),
		Lat:            c.FormValue("lat"),
		Long:           c.FormValue("long"),
		Village:        c.FormValue("village"),
	}
	if v := c.FormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return middleware.BadRequest("Invalid category ID")
		}
		input.CategoryID = id
	}
	if v := c.FormValue("priority_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return middleware.BadRequest("Invalid priority ID")
		}
		input.PriorityID = id
	}

	images, err := readImages(c)
	if err != nil {
		return err
	}

	created, err := h.caseService.Create(c.Context(), h.kind, actor, input, images)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CaseHandler) List(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	params := getPaginationParams(c)

	filter := domain.CaseFilter{
		Query:     c.Query("search"),
		OrderDesc: c.Query("order", "desc") != "asc",
	}
	if v := c.Query("status"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return middleware.BadRequest("Invalid status filter")
			}
			filter.StatusIDs = append(filter.StatusIDs, domain.Status(id))
		}
	}
	if v := c.Query("category"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return middleware.BadRequest("Invalid category filter")
			}
			filter.Categories = append(filter.Categories, id)
		}
	}
	if v := c.Query("priority"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return middleware.BadRequest("Invalid priority filter")
			}
			filter.Priorities = append(filter.Priorities, id)
		}
	}

	result, err := h.caseService.List(c.Context(), actor, h.kind, filter, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CaseHandler) Get(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	actor := middleware.GetActor(c)
	found, err := h.caseService.GetByID(c.Context(), id, &actor)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(found)
}

func (h *CaseHandler) ListMine(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	result, err := h.caseService.ListByUser(c.Context(), h.kind, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CaseHandler) Latest(c *fiber.Ctx) error {
	limit := domain.ClampLimit(c.QueryInt("limit", 10), 10, 50)

	result, err := h.caseService.Latest(c.Context(), h.kind, limit)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CaseHandler) CountToday(c *fiber.Ctx) error {
	count, err := h.caseService.CountToday(c.Context(), h.kind)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

func (h *CaseHandler) Activities(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	activities, err := h.caseService.Activities(c.Context(), id)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(activities)
}

func (h *CaseHandler) Save(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	saved, err := h.caseService.Save(c.Context(), id, middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *CaseHandler) Unsave(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	if err := h.caseService.Unsave(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CaseHandler) ListSaved(c *fiber.Ctx) error {
	result, err := h.caseService.ListSaved(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CaseHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	updated, err := h.caseService.Cancel(c.Context(), id, middleware.GetActor(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *CaseHandler) Rate(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	var input domain.RateCaseInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.caseService.Rate(c.Context(), id, middleware.GetActor(c), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *CaseHandler) Verify(c *fiber.Ctx) error {
	return h.transition(c, domain.ActionVerify)
}

func (h *CaseHandler) Decline(c *fiber.Ctx) error {
	return h.transition(c, domain.ActionDecline)
}

func (h *CaseHandler) Process(c *fiber.Ctx) error {
	return h.transition(c, domain.ActionProcess)
}

func (h *CaseHandler) Plan(c *fiber.Ctx) error {
	return h.transition(c, domain.ActionPlan)
}

func (h *CaseHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, domain.ActionComplete)
}

func (h *CaseHandler) Assign(c *fiber.Ctx) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	roleID, err := uuid.Parse(c.FormValue("role_id"))
	if err != nil {
		return middleware.BadRequest("Invalid role ID")
	}

	notes := optionalNotes(c)
	images, err := readImages(c)
	if err != nil {
		return err
	}

	activity, err := h.caseService.Transition(c.Context(), id, domain.ActionAssign, middleware.GetActor(c), notes, &roleID, images)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(activity)
}

// transition runs one officer action. The body is multipart so completion
// photos can ride along with the notes.
func (h *CaseHandler) transition(c *fiber.Ctx, action domain.TransitionAction) error {
	id, err := parseCaseID(c)
	if err != nil {
		return err
	}

	notes := optionalNotes(c)
	images, err := readImages(c)
	if err != nil {
		return err
	}

	activity, err := h.caseService.Transition(c.Context(), id, action, middleware.GetActor(c), notes, nil, images)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(activity)
}

func parseCaseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, middleware.BadRequest("Invalid case ID")
	}
	return id, nil
}

func optionalNotes(c *fiber.Ctx) *string {
	if v := c.FormValue("notes"); v != "" {
		return &v
	}
	return nil
}

// readImages pulls the optional "images" files out of a multipart body.
func readImages(c *fiber.Ctx) ([]domain.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// JSON or empty bodies simply carry no attachments.
		return nil, nil
	}

	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxImageCount {
		return nil, middleware.BadRequest("Maksimal 3 gambar per unggahan")
	}

	images := make([]domain.ImageUpload, 0, len(files))
	for _, file := range files {
		if file.Size > maxImageSize {
			return nil, middleware.BadRequest("Ukuran gambar maksimal 5MB")
		}

		mimeType := file.Header.Get("Content-Type")
		if !strings.HasPrefix(mimeType, "image/") {
			return nil, middleware.BadRequest("Berkas harus berupa gambar")
		}

		reader, err := file.Open()
		if err != nil {
			return nil, middleware.BadRequest("Failed to read file")
		}
		data, err := io.ReadAll(reader)
		reader.Close()
		if err != nil {
			return nil, middleware.BadRequest("Failed to read file")
		}

		images = append(images, domain.ImageUpload{
			FileName: file.Filename,
			Size:     file.Size,
			MimeType: mimeType,
			Data:     data,
		})
	}
	return images, nil
}

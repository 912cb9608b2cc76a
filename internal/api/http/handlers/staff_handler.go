package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-catalog/internal/api/dto"
	"github.com/spec-kit/staff-catalog/internal/domain"
	"github.com/spec-kit/staff-catalog/internal/service"
	apperrors "github.com/spec-kit/staff-catalog/pkg/util/errorutil"
)

const (
	titleStaffList   = "Staff List"
	titleCreateStaff = "Create Staff"
	titleUpdateStaff = "Update Staff"
	titleDeleteStaff = "Delete Staff"
	titleStaffDetail = "Staff Detail"
)

// StaffHandler serves the staff catalog pages.
type StaffHandler struct {
	staffService *service.StaffService
	logger       *zap.Logger
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{staffService: staffService, logger: logger}
}

// List handles GET /catalog/staffs.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	list, err := h.staffService.ListStaff(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("staff_list", fiber.Map{
		"Title":     titleStaffList,
		"StaffList": list,
	})
}

// Detail handles GET /catalog/staff/:id.
func (h *StaffHandler) Detail(c *fiber.Ctx) error {
	staff, err := h.staffService.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Render("staff_detail", fiber.Map{
		"Title": titleStaffDetail,
		"Staff": staff,
	})
}

// CreateForm handles GET /catalog/staff/create.
func (h *StaffHandler) CreateForm(c *fiber.Ctx) error {
	return c.Render("staff_form", fiber.Map{"Title": titleCreateStaff})
}

// CreateSubmit handles POST /catalog/staff/create.
func (h *StaffHandler) CreateSubmit(c *fiber.Ctx) error {
	form, err := parseStaffForm(c)
	if err != nil {
		return err
	}

	staff, created, err := h.staffService.CreateStaff(c.UserContext(), form.Name)
	if fields, ok := apperrors.FieldErrors(err); ok {
		return renderStaffForm(c, titleCreateStaff, staff, fields)
	}
	if err != nil {
		return err
	}

	if !created {
		h.logger.Debug("staff name already exists", zap.String("staff_id", staff.ID))
	}
	return c.Redirect(staff.URL())
}

// DeleteForm handles GET /catalog/staff/:id/delete.
func (h *StaffHandler) DeleteForm(c *fiber.Ctx) error {
	staff, err := h.staffService.GetStaff(c.UserContext(), c.Params("id"))
	if apperrors.IsNotFound(err) {
		return c.Redirect(domain.StaffListURL)
	}
	if err != nil {
		return err
	}
	return c.Render("staff_delete", fiber.Map{
		"Title": titleDeleteStaff,
		"Staff": staff,
	})
}

// DeleteSubmit handles POST /catalog/staff/:id/delete.
// A record that is already gone is treated as deleted.
func (h *StaffHandler) DeleteSubmit(c *fiber.Ctx) error {
	err := h.staffService.DeleteStaff(c.UserContext(), c.Params("id"))
	if err != nil && !apperrors.IsNotFound(err) {
		return err
	}
	return c.Redirect(domain.StaffListURL)
}

// UpdateForm handles GET /catalog/staff/:id/update.
func (h *StaffHandler) UpdateForm(c *fiber.Ctx) error {
	staff, err := h.staffService.GetStaff(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return renderStaffForm(c, titleUpdateStaff, staff, nil)
}

// UpdateSubmit handles POST /catalog/staff/:id/update.
func (h *StaffHandler) UpdateSubmit(c *fiber.Ctx) error {
	form, err := parseStaffForm(c)
	if err != nil {
		return err
	}

	staff, err := h.staffService.UpdateStaff(c.UserContext(), c.Params("id"), form.Name)
	if fields, ok := apperrors.FieldErrors(err); ok {
		return renderStaffForm(c, titleUpdateStaff, staff, fields)
	}
	if err != nil {
		return err
	}
	return c.Redirect(staff.URL())
}

func parseStaffForm(c *fiber.Ctx) (dto.StaffForm, error) {
	var form dto.StaffForm
	if err := c.BodyParser(&form); err != nil {
		return form, fiber.NewError(http.StatusBadRequest, "invalid form submission")
	}
	return form, nil
}

func renderStaffForm(c *fiber.Ctx, title string, staff *domain.Staff, fields []apperrors.FieldError) error {
	return c.Render("staff_form", fiber.Map{
		"Title":  title,
		"Staff":  staff,
		"Errors": fields,
	})
}

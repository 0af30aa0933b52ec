package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
	"fingerprintapi/internal/service"
)

// AddPerson registers a person together with exactly five fingerprint path
// references.
//
// @Summary      Add person
// @Tags         person
// @Accept       json
// @Produce      json
// @Param        request body service.AddPersonRequest true "person payload"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorPayload
// @Router       /person [post]
func AddPerson(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.AddPersonRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}

		id, err := svc.Add(c.UserContext(), req)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFullNameRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION", "full name is required")
			case errors.Is(err, service.ErrFingerprintCount):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION", "exactly 5 fingerprint paths are required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to add person")
		}

		return c.JSON(fiber.Map{
			"id":      id,
			"message": "Person added successfully",
		})
	}
}

// VerifyPerson resolves the person owning an exact fingerprint path reference.
//
// @Summary      Verify fingerprint path
// @Tags         person
// @Produce      json
// @Param        fingerprintPath query string true "stored fingerprint path"
// @Success      200 {object} service.PersonResult
// @Failure      400 {object} errorPayload
// @Failure      404 {object} errorPayload
// @Router       /person/verify [get]
func VerifyPerson(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fingerprintPath := c.Query("fingerprintPath")

		res, err := svc.Verify(c.UserContext(), fingerprintPath)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrPathRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION", "fingerprint path is required")
			case errors.Is(err, service.ErrPersonNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no person matches the provided fingerprint path")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to verify fingerprint")
		}

		return c.JSON(res)
	}
}

// ListPersons returns a page of person summaries, id ascending.
//
// @Summary      List persons
// @Tags         person
// @Produce      json
// @Param        page query int false "page number" default(1)
// @Param        pageSize query int false "page size" default(10)
// @Success      200 {object} service.PersonListResult
// @Failure      400 {object} errorPayload
// @Router       /person [get]
func ListPersons(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, pageSize, err := pageParams(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", err.Error())
		}

		res, err := svc.List(c.UserContext(), page, pageSize)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to list persons")
		}
		return c.JSON(res)
	}
}

// GetPerson returns one person by id.
//
// @Summary      Get person
// @Tags         person
// @Produce      json
// @Param        id path int true "person id"
// @Success      200 {object} service.PersonResult
// @Failure      400 {object} errorPayload
// @Failure      404 {object} errorPayload
// @Router       /person/{id} [get]
func GetPerson(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "person id must be an integer")
		}

		res, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to get person")
		}
		return c.JSON(res)
	}
}

// DeletePerson removes a person; fingerprint rows cascade with it.
//
// @Summary      Delete person
// @Tags         person
// @Produce      json
// @Param        id path int true "person id"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorPayload
// @Failure      404 {object} errorPayload
// @Router       /person/{id} [delete]
func DeletePerson(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "person id must be an integer")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to delete person")
		}

		return c.JSON(fiber.Map{"message": "Person deleted successfully"})
	}
}

// AuditLogs returns audit trail entries, newest first, with optional filters
// on auditType, isSuccessful and userId.
//
// @Summary      List audit logs
// @Tags         person
// @Produce      json
// @Param        page query int false "page number" default(1)
// @Param        pageSize query int false "page size" default(10)
// @Param        auditType query int false "1=add, 2=verify, 3=delete"
// @Param        isSuccessful query bool false "filter by outcome"
// @Param        userId query int false "filter by person id"
// @Success      200 {object} service.AuditListResult
// @Failure      400 {object} errorPayload
// @Router       /person/audit-logs [get]
func AuditLogs(svc service.PersonService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, pageSize, err := pageParams(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", err.Error())
		}

		var filter repository.AuditFilter
		if raw := c.Query("auditType"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || !model.AuditType(v).Valid() {
				return writeError(c, fiber.StatusBadRequest, "INVALID_AUDIT_TYPE", "auditType must be 1, 2 or 3")
			}
			t := model.AuditType(v)
			filter.AuditType = &t
		}
		if raw := c.Query("isSuccessful"); raw != "" {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "isSuccessful must be a boolean")
			}
			filter.IsSuccessful = &v
		}
		if raw := c.Query("userId"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_FILTER", "userId must be an integer")
			}
			filter.UserID = &v
		}

		res, err := svc.AuditLogs(c.UserContext(), page, pageSize, filter)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to list audit logs")
		}
		return c.JSON(res)
	}
}

// pageParams parses page/pageSize query parameters with their defaults.
func pageParams(c *fiber.Ctx) (int, int, error) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		return 0, 0, errors.New("page must be an integer")
	}
	pageSize, err := strconv.Atoi(c.Query("pageSize", "10"))
	if err != nil {
		return 0, 0, errors.New("pageSize must be an integer")
	}
	return page, pageSize, nil
}

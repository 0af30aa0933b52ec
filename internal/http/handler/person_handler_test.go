package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fingerprintapi/internal/model"
	"fingerprintapi/internal/repository"
	"fingerprintapi/internal/service"
	"fingerprintapi/internal/service/mocks"
)

func newPersonApp(svc service.PersonService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/person", AddPerson(svc))
	app.Get("/person/verify", VerifyPerson(svc))
	app.Get("/person/audit-logs", AuditLogs(svc))
	app.Get("/person", ListPersons(svc))
	app.Get("/person/:id", GetPerson(svc))
	app.Delete("/person/:id", DeletePerson(svc))
	return app
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	assert.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestAddPerson(t *testing.T) {
	fivePaths := []string{"/fingerprints/a.jpg", "/fingerprints/b.jpg", "/fingerprints/c.jpg", "/fingerprints/d.jpg", "/fingerprints/e.jpg"}

	t.Run("success", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Add", mock.Anything, mock.MatchedBy(func(req service.AddPersonRequest) bool {
			return req.FullName == "Jane Doe" && len(req.FingerPrints) == 5
		})).Return(42, nil)

		app := newPersonApp(svc)

		payload, _ := json.Marshal(service.AddPersonRequest{
			FullName:     "Jane Doe",
			CompanyName:  "Acme",
			FingerPrints: fivePaths,
		})
		req := httptest.NewRequest("POST", "/person", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, float64(42), body["id"])
		assert.Equal(t, "Person added successfully", body["message"])
		svc.AssertExpectations(t)
	})

	t.Run("missing full name", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Add", mock.Anything, mock.Anything).Return(0, service.ErrFullNameRequired)

		app := newPersonApp(svc)

		payload, _ := json.Marshal(service.AddPersonRequest{FingerPrints: fivePaths})
		req := httptest.NewRequest("POST", "/person", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong fingerprint count", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Add", mock.Anything, mock.Anything).Return(0, service.ErrFingerprintCount)

		app := newPersonApp(svc)

		payload, _ := json.Marshal(service.AddPersonRequest{
			FullName:     "Jane Doe",
			FingerPrints: fivePaths[:3],
		})
		req := httptest.NewRequest("POST", "/person", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		app := newPersonApp(svc)

		req := httptest.NewRequest("POST", "/person", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Add")
	})
}

func TestVerifyPerson(t *testing.T) {
	t.Run("match found", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Verify", mock.Anything, "/fingerprints/abc.jpg").Return(&service.PersonResult{
			ID:       7,
			FullName: "Jane Doe",
		}, nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/verify?fingerprintPath=%2Ffingerprints%2Fabc.jpg", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, float64(7), body["id"])
		assert.Equal(t, "Jane Doe", body["full_name"])
		svc.AssertExpectations(t)
	})

	t.Run("no match", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Verify", mock.Anything, "/fingerprints/nope.jpg").Return(nil, service.ErrPersonNotFound)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/verify?fingerprintPath=%2Ffingerprints%2Fnope.jpg", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing query parameter", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Verify", mock.Anything, "").Return(nil, service.ErrPathRequired)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/verify", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestListPersons(t *testing.T) {
	t.Run("returns page", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("List", mock.Anything, 2, 5).Return(&service.PersonListResult{
			Items: []repository.PersonSummary{
				{ID: 6, FullName: "A", FingerPrintCount: 5},
				{ID: 7, FullName: "B", FingerPrintCount: 5},
			},
			Page:       2,
			TotalPages: 3,
			TotalCount: 12,
		}, nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person?page=2&pageSize=5", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, float64(2), body["page"])
		assert.Equal(t, float64(3), body["totalPages"])
		assert.Equal(t, float64(12), body["totalCount"])
		assert.Len(t, body["items"], 2)
		svc.AssertExpectations(t)
	})

	t.Run("defaults applied", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("List", mock.Anything, 1, 10).Return(&service.PersonListResult{Page: 1}, nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("non-numeric page", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person?page=abc", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "List")
	})
}

func TestGetPerson(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Get", mock.Anything, 9).Return(&service.PersonResult{
			ID:               9,
			FullName:         "Jane Doe",
			FingerPrintCount: 5,
		}, nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/9", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, float64(9), body["id"])
		assert.Equal(t, float64(5), body["finger_print_count"])
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Get", mock.Anything, 404).Return(nil, service.ErrPersonNotFound)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/404", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/abc", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Get")
	})
}

func TestDeletePerson(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Delete", mock.Anything, 3).Return(nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("DELETE", "/person/3", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, "Person deleted successfully", body["message"])
		svc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Delete", mock.Anything, 3).Return(service.ErrPersonNotFound)

		app := newPersonApp(svc)

		req := httptest.NewRequest("DELETE", "/person/3", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("Delete", mock.Anything, 3).Return(errors.New("db down"))

		app := newPersonApp(svc)

		req := httptest.NewRequest("DELETE", "/person/3", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestAuditLogs(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("AuditLogs", mock.Anything, 1, 10, repository.AuditFilter{}).Return(&service.AuditListResult{
			Items:      []model.FingerPrintAudit{{ID: 1, AuditType: model.AuditTypeAddFingerPrint, IsSuccessful: true}},
			Page:       1,
			TotalPages: 1,
			TotalCount: 1,
		}, nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/audit-logs", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("all filters combined", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		svc.On("AuditLogs", mock.Anything, 1, 10, mock.MatchedBy(func(f repository.AuditFilter) bool {
			return f.AuditType != nil && *f.AuditType == model.AuditTypeVerifyFingerPrint &&
				f.IsSuccessful != nil && *f.IsSuccessful == false &&
				f.UserID != nil && *f.UserID == 5
		})).Return(&service.AuditListResult{Page: 1}, nil)

		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/audit-logs?auditType=2&isSuccessful=false&userId=5", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("out of range audit type", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/audit-logs?auditType=9", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "AuditLogs")
	})

	t.Run("non-boolean isSuccessful", func(t *testing.T) {
		svc := new(mocks.MockPersonService)
		app := newPersonApp(svc)

		req := httptest.NewRequest("GET", "/person/audit-logs?isSuccessful=maybe", nil)
		resp, _ := app.Test(req)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "AuditLogs")
	})
}

package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"fingerprintapi/docs"
	"fingerprintapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers stay
// thin: parse, delegate to the service, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, personSvc service.PersonService, fileSvc service.FileService) {
	// Serve the OpenAPI spec and a Swagger UI page
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(docs.OpenAPISpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/file", UploadFile(fileSvc))
	app.Post("/file/multi", UploadFiles(fileSvc))
	app.Post("/file/base64", UploadBase64(fileSvc))
	app.Get("/file/download/:fileName", DownloadFile(fileSvc))

	app.Post("/person", AddPerson(personSvc))
	app.Get("/person/verify", VerifyPerson(personSvc))
	app.Get("/person/audit-logs", AuditLogs(personSvc))
	app.Get("/person", ListPersons(personSvc))
	app.Get("/person/:id", GetPerson(personSvc))
	app.Delete("/person/:id", DeletePerson(personSvc))
}

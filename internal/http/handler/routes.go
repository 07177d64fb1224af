package handler

import (
	"context"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"fileapi/internal/service"
	"fileapi/internal/storage"
)

const healthTimeout = 2 * time.Second

// fileRequest is the body accepted by create and update, as JSON or form fields.
type fileRequest struct {
	Filename string `json:"filename" form:"filename"`
	Content  string `json:"content" form:"content"`
}

// messageResponse is the body of create, update and delete.
type messageResponse struct {
	Mensaje string `json:"mensaje"`
}

// contentResponse is the body of list and read.
type contentResponse struct {
	Mensaje   string `json:"mensaje"`
	Contenido any    `json:"contenido"`
}

// fileID returns the unescaped :id route parameter.
func fileID(c *fiber.Ctx) string {
	id := c.Params("id")
	if s, err := url.PathUnescape(id); err == nil {
		return s
	}
	return id
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Each service is mounted under its kind's route segment.
func RegisterRoutes(app *fiber.App, store storage.Store, services ...service.FileService) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	for _, svc := range services {
		g := app.Group("/" + svc.Kind().Route())
		g.Get("/", ListFiles(svc))
		g.Post("/", CreateFile(svc))
		g.Get("/:id", GetFile(svc))
		g.Put("/:id", UpdateFile(svc))
		g.Delete("/:id", DeleteFile(svc))
	}
}

// HealthCheck pings the store when it supports it.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	errorPayload
//	@Router		/health [get]
func HealthCheck(store storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p, ok := store.(storage.Pinger); ok {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Success	200
//	@Router		/healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListFiles returns the names of the files of the service's kind.
//
//	@Summary	List files
//	@Tags		files
//	@Produce	json
//	@Param		kind	path		string	true	"Resource kind"	Enums(hello, json, csv)
//	@Success	200		{object}	contentResponse
//	@Failure	500		{object}	errorPayload
//	@Router		/{kind} [get]
func ListFiles(svc service.FileService) fiber.Handler {
	msgs := messagesFor(svc.Kind())
	return func(c *fiber.Ctx) error {
		names, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err, msgs, msgs.missing)
		}
		return c.JSON(contentResponse{Mensaje: msgs.listed, Contenido: names})
	}
}

// CreateFile stores a new file.
//
//	@Summary	Create a file
//	@Tags		files
//	@Accept		json,x-www-form-urlencoded,mpfd
//	@Produce	json
//	@Param		kind	path		string		true	"Resource kind"	Enums(hello, json, csv)
//	@Param		body	body		fileRequest	true	"File name and content"
//	@Success	201		{object}	messageResponse
//	@Failure	409		{object}	errorPayload
//	@Failure	415		{object}	errorPayload
//	@Failure	422		{object}	errorPayload
//	@Router		/{kind} [post]
func CreateFile(svc service.FileService) fiber.Handler {
	msgs := messagesFor(svc.Kind())
	return func(c *fiber.Ctx) error {
		var req fileRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", msgs.incomplete)
		}
		if err := svc.Create(c.UserContext(), req.Filename, req.Content); err != nil {
			return writeServiceError(c, err, msgs, msgs.missing)
		}
		return c.Status(fiber.StatusCreated).JSON(messageResponse{Mensaje: msgs.created})
	}
}

// GetFile returns a file's content shaped by its kind.
//
//	@Summary	Read a file
//	@Tags		files
//	@Produce	json
//	@Param		kind	path		string	true	"Resource kind"	Enums(hello, json, csv)
//	@Param		id		path		string	true	"File name"
//	@Success	200		{object}	contentResponse
//	@Failure	404		{object}	errorPayload
//	@Failure	415		{object}	errorPayload
//	@Router		/{kind}/{id} [get]
func GetFile(svc service.FileService) fiber.Handler {
	msgs := messagesFor(svc.Kind())
	return func(c *fiber.Ctx) error {
		v, err := svc.Read(c.UserContext(), fileID(c))
		if err != nil {
			return writeServiceError(c, err, msgs, msgs.readMissing)
		}
		return c.JSON(contentResponse{Mensaje: msgs.read, Contenido: v})
	}
}

// UpdateFile replaces the content of an existing file.
//
//	@Summary	Update a file
//	@Tags		files
//	@Accept		json,x-www-form-urlencoded,mpfd
//	@Produce	json
//	@Param		kind	path		string		true	"Resource kind"	Enums(hello, json, csv)
//	@Param		id		path		string		true	"File name"
//	@Param		body	body		fileRequest	true	"New content"
//	@Success	200		{object}	messageResponse
//	@Failure	404		{object}	errorPayload
//	@Failure	415		{object}	errorPayload
//	@Failure	422		{object}	errorPayload
//	@Router		/{kind}/{id} [put]
func UpdateFile(svc service.FileService) fiber.Handler {
	msgs := messagesFor(svc.Kind())
	return func(c *fiber.Ctx) error {
		var req fileRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", msgs.incomplete)
		}
		if err := svc.Update(c.UserContext(), fileID(c), req.Content); err != nil {
			return writeServiceError(c, err, msgs, msgs.missing)
		}
		return c.JSON(messageResponse{Mensaje: msgs.updated})
	}
}

// DeleteFile removes a file.
//
//	@Summary	Delete a file
//	@Tags		files
//	@Produce	json
//	@Param		kind	path		string	true	"Resource kind"	Enums(hello, json, csv)
//	@Param		id		path		string	true	"File name"
//	@Success	200		{object}	messageResponse
//	@Failure	404		{object}	errorPayload
//	@Router		/{kind}/{id} [delete]
func DeleteFile(svc service.FileService) fiber.Handler {
	msgs := messagesFor(svc.Kind())
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), fileID(c)); err != nil {
			return writeServiceError(c, err, msgs, msgs.missing)
		}
		return c.JSON(messageResponse{Mensaje: msgs.deleted})
	}
}

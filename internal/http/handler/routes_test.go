package handler

import (
	"net/http"
	"net/url"
	"testing"

	"fileapi/internal/http/middleware"
	"fileapi/internal/model"
	"fileapi/internal/service"
	"fileapi/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := storage.NewMemory()
	svcs := make([]service.FileService, 0, len(model.Kinds))
	for _, k := range model.Kinds {
		svc, err := service.NewFileService(k, store, zap.NewNop())
		require.NoError(t, err)
		svcs = append(svcs, svc)
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, store, svcs...)
	return app
}

type step struct {
	req        *http.Request
	wantStatus int
	wantMsg    string
	wantBody   string
}

func runSteps(t *testing.T, app *fiber.App, steps []step) {
	t.Helper()
	for i, s := range steps {
		resp, err := app.Test(s.req)
		require.NoError(t, err)
		body := decode(t, resp)
		assert.Equal(t, s.wantStatus, resp.StatusCode, "step %d: %s %s", i, s.req.Method, s.req.URL)
		assert.Equal(t, s.wantMsg, body.Mensaje, "step %d", i)
		if s.wantBody != "" {
			assert.JSONEq(t, s.wantBody, string(body.Contenido), "step %d", i)
		}
	}
}

func TestFileRoutes_JSONLifecycle(t *testing.T) {
	app := newTestApp(t)

	runSteps(t, app, []step{
		{jsonRequest(http.MethodGet, "/json", nil), http.StatusOK, "Operación exitosa", `[]`},
		{jsonRequest(http.MethodPost, "/json", fiber.Map{"filename": "a.json", "content": "not json"}), http.StatusUnsupportedMediaType, "Contenido no es un JSON válido", ""},
		{jsonRequest(http.MethodGet, "/json/a.json", nil), http.StatusNotFound, "El fichero no existe", ""},
		{jsonRequest(http.MethodPost, "/json", fiber.Map{"filename": "a.json", "content": `{"x":[1,2]}`}), http.StatusCreated, "Fichero guardado exitosamente", ""},
		{jsonRequest(http.MethodPost, "/json", fiber.Map{"filename": "a.json", "content": `{}`}), http.StatusConflict, "El fichero ya existe", ""},
		{jsonRequest(http.MethodGet, "/json", nil), http.StatusOK, "Operación exitosa", `["a.json"]`},
		{jsonRequest(http.MethodGet, "/json/a.json", nil), http.StatusOK, "Operación exitosa", `{"x":[1,2]}`},
		{jsonRequest(http.MethodPut, "/json/a.json", fiber.Map{"content": `[true]`}), http.StatusOK, "Fichero actualizado exitosamente", ""},
		{jsonRequest(http.MethodGet, "/json/a.json", nil), http.StatusOK, "Operación exitosa", `[true]`},
		{jsonRequest(http.MethodPut, "/json/b.json", fiber.Map{"content": `[]`}), http.StatusNotFound, "El fichero no existe", ""},
		{jsonRequest(http.MethodDelete, "/json/a.json", nil), http.StatusOK, "Fichero eliminado exitosamente", ""},
		{jsonRequest(http.MethodDelete, "/json/a.json", nil), http.StatusNotFound, "El fichero no existe", ""},
	})
}

func TestFileRoutes_RawAndCSV(t *testing.T) {
	app := newTestApp(t)

	runSteps(t, app, []step{
		{formRequest(http.MethodPost, "/hello", url.Values{"filename": {"notes.txt"}, "content": {"hola"}}), http.StatusCreated, "Guardado con éxito", ""},
		{formRequest(http.MethodPost, "/hello", url.Values{"filename": {"notes.txt"}}), http.StatusUnprocessableEntity, "Parámetros incompletos", ""},
		{jsonRequest(http.MethodGet, "/hello/notes.txt", nil), http.StatusOK, "Archivo leído con éxito", `"hola"`},
		{jsonRequest(http.MethodGet, "/hello/other.txt", nil), http.StatusNotFound, "Archivo no encontrado", ""},
		{jsonRequest(http.MethodPost, "/csv", fiber.Map{"filename": "p.csv", "content": "name"}), http.StatusUnsupportedMediaType, "Contenido no es un CSV válido", ""},
		{jsonRequest(http.MethodPost, "/csv", fiber.Map{"filename": "p.csv", "content": "h1,h2\nv1,v2"}), http.StatusCreated, "Fichero guardado exitosamente", ""},
		{jsonRequest(http.MethodGet, "/csv/p.csv", nil), http.StatusOK, "Fichero leído con éxito", `[{"h1":"v1","h2":"v2"}]`},
		{jsonRequest(http.MethodGet, "/csv", nil), http.StatusOK, "Operación exitosa", `["p.csv"]`},
		{jsonRequest(http.MethodGet, "/hello", nil), http.StatusOK, "Listado de ficheros", `["notes.txt","p.csv"]`},
		{jsonRequest(http.MethodGet, "/json", nil), http.StatusOK, "Operación exitosa", `[]`},
		{jsonRequest(http.MethodPut, "/csv/p.csv", fiber.Map{"content": "h1,h2"}), http.StatusOK, "Fichero actualizado exitosamente", ""},
		{jsonRequest(http.MethodGet, "/csv/p.csv", nil), http.StatusUnsupportedMediaType, "Contenido no es un CSV válido", ""},
		{jsonRequest(http.MethodDelete, "/hello/notes.txt", nil), http.StatusOK, "Eliminado con éxito", ""},
		{jsonRequest(http.MethodDelete, "/hello/notes.txt", nil), http.StatusNotFound, "El archivo no existe", ""},
	})
}

func TestFileRoutes_ErrorCarriesRequestID(t *testing.T) {
	app := newTestApp(t)

	req := jsonRequest(http.MethodGet, "/json/missing.json", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-42")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body := decode(t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "rid-42", body.RequestID)
}

package http

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
	"github.com/jhoicas/inventory-tracker/internal/application/realtime"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
	"github.com/jhoicas/inventory-tracker/internal/domain"
	"github.com/jhoicas/inventory-tracker/internal/domain/entity"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

const defaultKeepAlive = 25 * time.Second

// StorageLocationHandler maneja las peticiones HTTP para StorageLocation (protegido).
type StorageLocationHandler struct {
	uc        *usecase.StorageLocationUseCase
	log       *logger.Logger
	keepAlive time.Duration
}

// NewStorageLocationHandler construye el handler. keepAlive <= 0 usa 25s.
func NewStorageLocationHandler(uc *usecase.StorageLocationUseCase, log *logger.Logger, keepAlive time.Duration) *StorageLocationHandler {
	if log == nil {
		log = logger.Nop()
	}
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &StorageLocationHandler{uc: uc, log: log.Component("http.storage_locations"), keepAlive: keepAlive}
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         storage-locations
// @Security     Bearer
// @Produce      json
// @Param        sort  query  string  false  "-created (por defecto) o name"
// @Success      200   {object}  dto.StorageLocationListResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/storage-locations [get]
func (h *StorageLocationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("sort"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         storage-locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStorageLocationRequest  true  "Datos de la ubicación"
// @Success      201   {object}  dto.StorageLocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/storage-locations [post]
func (h *StorageLocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStorageLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar ubicación
// @Tags         storage-locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la ubicación"
// @Param        body  body  dto.UpdateStorageLocationRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.StorageLocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/storage-locations/{id} [put]
func (h *StorageLocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStorageLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar ubicación
// @Tags         storage-locations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/storage-locations/{id} [delete]
func (h *StorageLocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Stream godoc
// @Summary      Vista en tiempo real de las ubicaciones (SSE)
// @Description  Cada conexión tiene su propia vista reconciliada. Emite "event: snapshot" con la lista completa en cada cambio y un comentario de keep-alive periódico. Acepta ?token= porque EventSource no envía headers.
// @Tags         storage-locations
// @Security     Bearer
// @Produce      text/event-stream
// @Param        sort   query  string  false  "-created (por defecto) o name"
// @Param        token  query  string  false  "token del usuario"
// @Success      200    {object}  dto.StorageLocationSnapshot
// @Router       /api/storage-locations/stream [get]
func (h *StorageLocationHandler) Stream(c *fiber.Ctx) error {
	// El Ctx de Fiber se recicla al volver el handler: el stream solo usa valores capturados aquí.
	ctx := c.UserContext()
	view := h.uc.Watch(c.Query("sort"))
	keepAlive := h.keepAlive
	log := h.log.With("user_id", GetUserID(c))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer view.Stop()
		if err := view.Start(ctx); err != nil && !errors.Is(err, realtime.ErrStopped) {
			log.Warn().Err(err).Msg("carga inicial de ubicaciones")
		}

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if err := writeSnapshot(w, view); err != nil {
			return
		}
		for {
			select {
			case <-view.Changes():
				if err := writeSnapshot(w, view); err != nil {
					log.Debug().Err(err).Msg("cliente SSE desconectado")
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug().Err(err).Msg("cliente SSE desconectado")
					return
				}
			case <-view.Done():
				return
			}
		}
	}))
	return nil
}

type locationView interface {
	Snapshot() []entity.StorageLocation
	State() realtime.State
	Err() error
}

func snapshotOf(view locationView) dto.StorageLocationSnapshot {
	snap := dto.StorageLocationSnapshot{
		State: string(view.State()),
		Items: usecase.ToStorageLocationResponses(view.Snapshot()),
	}
	if err := view.Err(); err != nil {
		var f *domain.Failure
		if errors.As(err, &f) {
			snap.Error = f.Message()
		} else {
			snap.Error = "error inesperado"
		}
	}
	return snap
}

// writeSnapshot emite un evento SSE "snapshot" y hace flush.
func writeSnapshot(w *bufio.Writer, view locationView) error {
	raw, err := json.Marshal(snapshotOf(view))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", raw); err != nil {
		return err
	}
	return w.Flush()
}

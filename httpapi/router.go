package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wonderivan/logger"

	"github.com/ftl/sim-toolkit/cat"
	"github.com/ftl/sim-toolkit/sim"
)

const logPrefix = "[http] "

// Slots gives access to the toolkit services, cat.Registry is the usual implementation.
type Slots interface {
	Slots() []sim.Slot
	Lookup(slot sim.Slot) (*cat.Service, error)
	OnCmdResponse(slot sim.Slot, response cat.Response) error
	OnEventResponse(slot sim.Slot, response cat.Response) error
}

// ForegroundApps keeps track of the application in the foreground, cat.Foreground is the usual implementation.
type ForegroundApps interface {
	ForegroundApp() string
	SetForegroundApp(app string)
}

type foregroundBody struct {
	App string `json:"app" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type slotsResponse struct {
	Slots []sim.Slot `json:"slots"`
}

// NewRouter creates the routes of the control surface. The foreground routes are only available if apps is not nil.
func NewRouter(slots Slots, apps ForegroundApps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	handler := &handler{slots: slots, apps: apps}
	v1 := router.Group("/v1")
	{
		v1.GET("/slots", handler.listSlots)
		v1.GET("/slots/:slot/command", handler.currentCommand)
		v1.GET("/slots/:slot/menu", handler.menuCommand)
		v1.POST("/slots/:slot/response", handler.commandResponse)
		v1.POST("/slots/:slot/event", handler.eventResponse)
		if apps != nil {
			v1.GET("/foreground", handler.foregroundApp)
			v1.PUT("/foreground", handler.setForegroundApp)
		}
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug(logPrefix+"%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

type handler struct {
	slots Slots
	apps  ForegroundApps
}

func (h *handler) listSlots(c *gin.Context) {
	c.JSON(http.StatusOK, slotsResponse{Slots: h.slots.Slots()})
}

func (h *handler) currentCommand(c *gin.Context) {
	h.command(c, (*cat.Service).CurrentCommand, "no current command")
}

func (h *handler) menuCommand(c *gin.Context) {
	h.command(c, (*cat.Service).MenuCommand, "no main menu")
}

func (h *handler) command(c *gin.Context, get func(*cat.Service) *cat.CmdMessage, notFound string) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	service, err := h.slots.Lookup(slot)
	if err != nil {
		sendError(c, err)
		return
	}
	cmd := get(service)
	if cmd == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: notFound})
		return
	}
	c.JSON(http.StatusOK, cmd)
}

func (h *handler) commandResponse(c *gin.Context) {
	h.response(c, h.slots.OnCmdResponse)
}

func (h *handler) eventResponse(c *gin.Context) {
	h.response(c, h.slots.OnEventResponse)
}

func (h *handler) response(c *gin.Context, deliver func(sim.Slot, cat.Response) error) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	var response cat.Response
	if err := c.ShouldBindJSON(&response); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err := deliver(slot, response); err != nil {
		sendError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *handler) foregroundApp(c *gin.Context) {
	c.JSON(http.StatusOK, foregroundBody{App: h.apps.ForegroundApp()})
}

func (h *handler) setForegroundApp(c *gin.Context) {
	var body foregroundBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.apps.SetForegroundApp(body.App)
	logger.Debug(logPrefix+"foreground app %s", body.App)
	c.Status(http.StatusNoContent)
}

func slotParam(c *gin.Context) (sim.Slot, bool) {
	value, err := strconv.Atoi(c.Param("slot"))
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid slot " + c.Param("slot")})
		return 0, false
	}
	return sim.Slot(value), true
}

func sendError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, cat.ErrUnknownSlot):
		status = http.StatusNotFound
	case errors.Is(err, cat.ErrServiceDisposed):
		status = http.StatusServiceUnavailable
	default:
		logger.Error(logPrefix+"%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, errorResponse{Error: err.Error()})
}

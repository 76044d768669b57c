package api

import (
	"net/http"

	apperrors "ats-console/internal/common/errors"
	"ats-console/internal/modal"
	"ats-console/internal/notice"

	"github.com/gin-gonic/gin"
)

// pageKind holds the sessions of one page type and the routes every page type
// shares: view, tear down and dismiss a notice.
type pageKind[T any] struct {
	name     string
	registry *modal.Registry[T]
	view     func(T) interface{}
	notices  func(T) *notice.Center
	close    func(T)
}

type created struct {
	PageID string      `json:"pageId"`
	View   interface{} `json:"view"`
}

func (k *pageKind[T]) register(g *gin.RouterGroup) {
	g.GET("/:id", k.get)
	g.DELETE("/:id", k.remove)
	g.POST("/:id/notices/:noticeId/dismiss", k.dismiss)
}

// mount stores a page built from its own session id.
func (k *pageKind[T]) mount(build func(id string) T) (string, T) {
	return k.registry.MountFunc(build, k.close)
}

func (k *pageKind[T]) lookup(c *gin.Context) (T, bool) {
	id := c.Param("id")
	p, ok := k.registry.Get(id)
	if !ok {
		respondError(c, apperrors.NewSessionNotFoundError(k.name, id), "")
	}
	return p, ok
}

func (k *pageKind[T]) respondCreated(c *gin.Context, id string, p T) {
	c.JSON(http.StatusCreated, created{PageID: id, View: k.view(p)})
}

func (k *pageKind[T]) respondView(c *gin.Context, p T) {
	c.JSON(http.StatusOK, k.view(p))
}

// respond answers with the view on success and with the error plus the view
// otherwise, so the caller sees the notices the failure raised.
func (k *pageKind[T]) respond(c *gin.Context, p T, err error, fallback string) {
	if err != nil {
		respondErrorView(c, err, fallback, k.view(p))
		return
	}
	k.respondView(c, p)
}

func (k *pageKind[T]) get(c *gin.Context) {
	if p, ok := k.lookup(c); ok {
		k.respondView(c, p)
	}
}

func (k *pageKind[T]) remove(c *gin.Context) {
	id := c.Param("id")
	if !k.registry.Unmount(id) {
		respondError(c, apperrors.NewSessionNotFoundError(k.name, id), "")
		return
	}
	c.Status(http.StatusNoContent)
}

func (k *pageKind[T]) dismiss(c *gin.Context) {
	p, ok := k.lookup(c)
	if !ok {
		return
	}
	if !k.notices(p).Dismiss(c.Param("noticeId")) {
		respondError(c, apperrors.NewNotFoundError("notice", "Notice not found"), "")
		return
	}
	k.respondView(c, p)
}

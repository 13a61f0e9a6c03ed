package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/crm/domain"
	"github.com/storedesk/storedesk-backend/internal/crm/repository"
)

// resource wires one entity's CRUD and stream endpoints. T is the entity, C
// and U its create and update requests.
type resource[T, C, U any] struct {
	name      string
	single    string
	keepAlive time.Duration

	list   func(c *gin.Context, s auth.Session) ([]T, error)
	get    func(ctx context.Context, s auth.Session, id string) (T, error)
	create func(ctx context.Context, s auth.Session, req C) (string, error)
	update func(ctx context.Context, s auth.Session, id string, req U) error
	remove func(ctx context.Context, s auth.Session, id string) error
	watch  func(ctx context.Context, s auth.Session) repository.View[repository.State[T]]
	match  func(c *gin.Context) func(T) bool
}

func (r resource[T, C, U]) register(rg *gin.RouterGroup) {
	g := rg.Group("/" + r.name)
	g.GET("", r.List)
	g.POST("", r.Create)
	g.GET("/stream", r.Stream)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}

func (r resource[T, C, U]) filter(c *gin.Context, items []T) []T {
	if r.match == nil {
		return items
	}
	return domain.Filter(items, r.match(c))
}

func (r resource[T, C, U]) List(c *gin.Context) {
	items, err := r.list(c, auth.CurrentSession(c))
	if err != nil {
		writeError(c, "list_"+r.name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{r.name: r.filter(c, items)})
}

func (r resource[T, C, U]) Get(c *gin.Context) {
	item, err := r.get(c.Request.Context(), auth.CurrentSession(c), c.Param("id"))
	if err != nil {
		writeError(c, "get_"+r.name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{r.single: item})
}

func (r resource[T, C, U]) Create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	s := auth.CurrentSession(c)
	id, err := r.create(ctx, s, req)
	if err != nil {
		writeError(c, "create_"+r.name, err)
		return
	}

	item, err := r.get(ctx, s, id)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{"id": id})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, r.single: item})
}

func (r resource[T, C, U]) Update(c *gin.Context) {
	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	s := auth.CurrentSession(c)
	id := c.Param("id")
	if err := r.update(ctx, s, id, req); err != nil {
		writeError(c, "update_"+r.name, err)
		return
	}

	item, err := r.get(ctx, s, id)
	if err != nil {
		writeError(c, "get_"+r.name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{r.single: item})
}

func (r resource[T, C, U]) Delete(c *gin.Context) {
	if err := r.remove(c.Request.Context(), auth.CurrentSession(c), c.Param("id")); err != nil {
		writeError(c, "delete_"+r.name, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.single + " deleted successfully"})
}

// Stream sends the filtered live list as SSE snapshots.
func (r resource[T, C, U]) Stream(c *gin.Context) {
	view := r.watch(c.Request.Context(), auth.CurrentSession(c))
	streamView(c, view, r.keepAlive, func(s repository.State[T]) interface{} {
		s.Items = r.filter(c, s.Items)
		return s
	})
}

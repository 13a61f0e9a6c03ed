package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/crm/repository"
	"github.com/storedesk/storedesk-backend/internal/logging"
)

// streamView writes the view's state as an SSE "snapshot" event, first
// immediately and then after every change, until the client goes away or the
// view is closed.
func streamView[S any](c *gin.Context, view repository.View[S], keepAlive time.Duration, render func(S) interface{}) {
	defer view.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	send := func() bool {
		data, err := json.Marshal(render(view.State()))
		if err != nil {
			logging.New(ctx).Error("stream_marshal", err)
			return false
		}
		if _, err := fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case _, ok := <-view.Changes():
			if !ok || !send() {
				return
			}
		}
	}
}

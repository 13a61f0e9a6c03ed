package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storedesk/storedesk-backend/internal/crm/performance"
)

const dateLayout = "2006-01-02"

// parseTime accepts a calendar date (server local time) or RFC 3339.
func parseTime(value string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, value, time.Local); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", value)
	}
	return t, false, nil
}

// dateRange reads ?from=&to=. ok is false when neither is given. A bare
// date in to covers that whole day.
func dateRange(c *gin.Context) (from, to time.Time, ok bool, err error) {
	rawFrom, rawTo := c.Query("from"), c.Query("to")
	if rawFrom == "" && rawTo == "" {
		return from, to, false, nil
	}
	if rawFrom == "" || rawTo == "" {
		return from, to, false, fmt.Errorf("from and to must be given together")
	}

	from, _, err = parseTime(rawFrom)
	if err != nil {
		return from, to, false, err
	}
	to, isDate, err := parseTime(rawTo)
	if err != nil {
		return from, to, false, err
	}
	if isDate {
		_, to = performance.DayRange(to, to)
	}
	if to.Before(from) {
		return from, to, false, fmt.Errorf("from must not be after to")
	}
	return from, to, true, nil
}

// boolQuery reads an optional boolean parameter; unparsable values are
// ignored.
func boolQuery(c *gin.Context, key string) *bool {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

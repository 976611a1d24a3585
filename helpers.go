package main

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"digital-ledger/apperr"
)

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.ValidationMsg("invalid id", "id")
	}
	return uint(id), nil
}

// pickFields keeps only the allowed keys of a partial update payload. It
// guards against mass assignment of server-owned columns (id, counters,
// timestamps) while preserving the merge semantics of PUT/PATCH: fields the
// client did not send keep their prior values.
func pickFields(payload map[string]interface{}, allowed ...string) map[string]interface{} {
	updates := make(map[string]interface{}, len(payload))
	for _, key := range allowed {
		if v, ok := payload[key]; ok {
			updates[key] = v
		}
	}
	return updates
}

func paginate(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// enumField reports whether the named key of a partial update, when present,
// holds a string from the allowed set. JSON payloads can carry any type, so a
// non-string value fails instead of slipping past the allowlist into the
// database.
func enumField(updates map[string]interface{}, key string, allowed []string) bool {
	v, ok := updates[key]
	if !ok {
		return true
	}
	s, ok := v.(string)
	return ok && contains(allowed, s)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

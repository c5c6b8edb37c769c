package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var ErrBadID = errors.New("invalid id")

// ParamID reads a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	return ParseID(c.Param(name))
}

// ParseID parses a positive integer id; blanks and garbage are ErrBadID.
func ParseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || n == 0 {
		return 0, ErrBadID
	}
	return uint(n), nil
}

func IsJSON(c *gin.Context) bool {
	return c.ContentType() == binding.MIMEJSON
}

// OptionalFormInt reads key from the form or query. A missing or blank
// value is nil.
func OptionalFormInt(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetPostForm(key)
	if !ok {
		raw = c.Query(key)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// FormIDs collects ids posted as key, key[] or a comma separated list.
// Values that are not positive integers are dropped.
func FormIDs(c *gin.Context, key string) []uint {
	values := append(c.PostFormArray(key), c.PostFormArray(key+"[]")...)
	var out []uint
	seen := make(map[uint]struct{})
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			id, err := ParseID(part)
			if err != nil {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

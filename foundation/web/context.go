package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the request-scoped values a handler works with. It embeds
// the gin context for raw access and keeps a separate context.Context the
// repositories receive.
type Context struct {
	*gin.Context
	Ctx     context.Context
	Request *http.Request

	queryErrors []error
	paramErrors []error
}

func NewContext(c *gin.Context) *Context {
	return &Context{
		Context: c,
		Ctx:     c.Request.Context(),
		Request: c.Request,
	}
}

// GetQueryFunc reads an optional query parameter and returns a typed pointer
// (*int, *string, *bool). A missing parameter yields a typed nil pointer; a
// malformed one is recorded and surfaced by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.Context.GetQuery(name)

	switch kind {
	case reflect.Int:
		if !ok || value == "" {
			return (*int)(nil)
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrors = append(c.queryErrors, errors.Wrapf(err, "query parameter %q", name))
			return (*int)(nil)
		}
		return &v
	case reflect.Bool:
		if !ok || value == "" {
			return (*bool)(nil)
		}
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrors = append(c.queryErrors, errors.Wrapf(err, "query parameter %q", name))
			return (*bool)(nil)
		}
		return &v
	case reflect.String:
		if !ok || value == "" {
			return (*string)(nil)
		}
		return &value
	default:
		c.queryErrors = append(c.queryErrors, fmt.Errorf("unsupported query kind %s for %q", kind, name))
		return nil
	}
}

// ValidQuery reports the first malformed query parameter, if any.
func (c *Context) ValidQuery() error {
	if len(c.queryErrors) > 0 {
		return NewRequestError(c.queryErrors[0], http.StatusBadRequest)
	}
	return nil
}

// GetParam reads a required path parameter and returns the typed value (int or
// string). Failures are recorded and surfaced by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Context.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrors = append(c.paramErrors, errors.Wrapf(err, "path parameter %q", name))
			return 0
		}
		return v
	case reflect.String:
		if value == "" {
			c.paramErrors = append(c.paramErrors, fmt.Errorf("missing path parameter %q", name))
		}
		return value
	default:
		c.paramErrors = append(c.paramErrors, fmt.Errorf("unsupported param kind %s for %q", kind, name))
		return nil
	}
}

// ValidParam reports the first invalid path parameter, if any.
func (c *Context) ValidParam() error {
	if len(c.paramErrors) > 0 {
		return NewRequestError(c.paramErrors[0], http.StatusBadRequest)
	}
	return nil
}

// BindFunc binds the request body (json or form) into obj and checks that the
// named struct fields were provided.
func (c *Context) BindFunc(obj interface{}, required ...string) error {
	if err := c.Context.ShouldBind(obj); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request body"), http.StatusBadRequest)
	}

	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	for _, group := range required {
		// The call sites pass both "A", "B" and "A,B" styles.
		for _, name := range strings.Split(group, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			field := v.FieldByName(name)
			if !field.IsValid() {
				continue
			}
			if field.Kind() == reflect.Ptr && field.IsNil() {
				return NewRequestError(fmt.Errorf("field %s is required", name), http.StatusBadRequest)
			}
			if field.Kind() != reflect.Ptr && field.IsZero() {
				return NewRequestError(fmt.Errorf("field %s is required", name), http.StatusBadRequest)
			}
		}
	}

	return nil
}

// Respond writes the payload as json with the given status code.
func (c *Context) Respond(data interface{}, statusCode int) error {
	c.Context.JSON(statusCode, data)
	return nil
}

// RespondError writes an error response. Request errors carry their own
// status code; anything else is an internal error.
func (c *Context) RespondError(err error) error {
	statusCode := http.StatusInternalServerError

	var requestErr *RequestError
	if errors.As(err, &requestErr) {
		statusCode = requestErr.Status
	}

	c.Context.JSON(statusCode, map[string]interface{}{
		"error":  err.Error(),
		"status": false,
	})
	return nil
}

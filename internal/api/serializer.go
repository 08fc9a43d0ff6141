package api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 1 << 20

// sonicSerializer replaces echo's encoding/json serializer.
type sonicSerializer struct{}

func (sonicSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := sonic.ConfigStd.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (sonicSerializer) Deserialize(c echo.Context, i any) error {
	if err := sonic.ConfigStd.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json").SetInternal(err)
	}
	return nil
}

// bindResource decodes a body wrapped by resource name, {"key": {...}}.
// An unwrapped object is accepted as the resource itself.
func bindResource(c echo.Context, key string, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return badRequest("unreadable body")
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var envelope map[string]sonic.NoCopyRawMessage
	if err := sonic.ConfigStd.Unmarshal(raw, &envelope); err != nil {
		return badRequest("invalid json")
	}
	body := raw
	if inner, ok := envelope[key]; ok {
		body = inner
	}
	if err := sonic.ConfigStd.Unmarshal(body, dst); err != nil {
		return badRequest("invalid " + key)
	}
	return nil
}

package webserver

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

// jsonSerializer swaps echo's encoding/json default for jsoniter.
type jsonSerializer struct {
	json jsoniter.API
}

func newJSONSerializer() jsonSerializer {
	return jsonSerializer{json: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (s jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := s.json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (s jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := s.json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("unmarshal error: %v", err)).SetInternal(err)
	}
	return nil
}

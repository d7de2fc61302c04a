// Package survey turns a GuildQuality webhook body into the text of a chat notification.
//
// GuildQuality has delivered surveys in more than one shape over time, so nothing here
// binds the body to a struct. Fields are probed with ordered gjson locators instead.
package survey

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid JSON")

// Parse validates the raw request body. An empty body is treated as {}.
func Parse(body string, isBase64Encoded bool) (gjson.Result, error) {
	if isBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("%w: decoding base64 body: %v", ErrInvalidJSON, err)
		}
		body = string(decoded)
	}
	if body == "" {
		body = "{}"
	}
	if !gjson.Valid(body) {
		return gjson.Result{}, ErrInvalidJSON
	}
	return gjson.Parse(body), nil
}

package api

import (
	"encoding/json"
	"strconv"
	"strings"

	"tourism_system/internal/middleware"
	"tourism_system/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// payload flattens the submitted body into string fields, accepting either a
// form post (page flows) or a JSON object (API clients), the way every
// mutation endpoint in this app is reachable from both transports.
func payload(c *gin.Context) map[string]string {
	data := map[string]string{}
	if isJSONRequest(c) {
		var raw map[string]any
		if err := c.ShouldBindJSON(&raw); err == nil {
			for k, v := range raw {
				switch t := v.(type) {
				case string:
					data[k] = t
				case float64:
					data[k] = strconv.FormatFloat(t, 'f', -1, 64)
				case bool:
					data[k] = strconv.FormatBool(t)
				case json.Number:
					data[k] = t.String()
				}
			}
		}
		return data
	}
	_ = c.Request.ParseForm()
	for k, vs := range c.Request.PostForm {
		if len(vs) > 0 {
			data[k] = vs[0]
		}
	}
	return data
}

// isJSONRequest reports whether the client submitted a JSON body; such
// clients get JSON responses where page clients get a flash and a redirect.
func isJSONRequest(c *gin.Context) bool {
	return strings.Contains(c.ContentType(), "json")
}

// parsePrice converts a submitted price field, rejecting negatives.
func parsePrice(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// amenitiesJSON turns a comma-separated amenities field into the stored JSON
// array form.
func amenitiesJSON(raw string) datatypes.JSON {
	var list []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			list = append(list, p)
		}
	}
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return datatypes.JSON(b)
}

// amenitiesDisplay renders a stored amenities array back to a readable string.
func amenitiesDisplay(j datatypes.JSON) string {
	var list []string
	if err := json.Unmarshal(j, &list); err != nil {
		return ""
	}
	return strings.Join(list, ", ")
}

// pageData assembles the common template context: the current user plus any
// pending flash message.
func pageData(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		data["User"] = user
	}
	category, message := utils.TakeFlash(c)
	data["FlashCategory"] = category
	data["FlashMessage"] = message
	return data
}

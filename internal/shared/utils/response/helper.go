package response

import "github.com/gin-gonic/gin"

// RespondJSON writes the standard API envelope. Error taxonomy mapping
// (not-found, duplicate) happens in the controllers; this only shapes the
// body.
func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

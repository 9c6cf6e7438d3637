package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sessionResponse struct {
	SessionToken string `json:"sessionToken"`
	ExpiresIn    int    `json:"expiresIn"`
}

func createSessionHandler(sessions sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _, err := sessions.Issue(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create session"})
			return
		}
		c.JSON(http.StatusCreated, sessionResponse{
			SessionToken: token,
			ExpiresIn:    sessions.TTLSeconds(),
		})
	}
}

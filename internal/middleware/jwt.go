package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sahilvr03/kido-store/internal/auth"
)

// AuthOptional vérifie le jeton s'il est présent et alimente le contexte Gin
// (user_id, role, email). Une requête anonyme continue sans identité : chaque
// handler décide de la forme de sa réponse 401.
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie("token")
		token := auth.ExtractToken(c.GetHeader("Authorization"), cookie)

		if ident := auth.ParseToken(token); ident != nil {
			c.Set("user_id", ident.ID)
			c.Set("role", ident.Role)
			c.Set("email", ident.Email)
		}

		c.Next()
	}
}

// CurrentIdentity reconstruit l'identité déposée par AuthOptional,
// nil si la requête est anonyme
func CurrentIdentity(c *gin.Context) *auth.Identity {
	userID := c.GetString("user_id")
	if userID == "" {
		return nil
	}
	return &auth.Identity{
		ID:    userID,
		Role:  c.GetString("role"),
		Email: c.GetString("email"),
	}
}

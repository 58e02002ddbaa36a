package auth

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity est le résultat d'une vérification de jeton réussie. L'absence
// d'identité (jeton manquant, invalide ou expiré) se traduit par un nil,
// jamais par une erreur : c'est à l'appelant de décider du code de retour.
type Identity struct {
	ID    string // ObjectID hexadécimal de l'utilisateur
	Role  string // "user" ou "admin"
	Email string // optionnel, utilisé pour cibler les notifications
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super_secret"
	}
	return []byte(secret)
}

// GenerateJWT signe un jeton HS256 valable 24h
func GenerateJWT(userID, role, email string) (string, error) {
	claims := jwt.MapClaims{
		"id":    userID,
		"role":  role,
		"email": email,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ParseToken vérifie la signature et l'expiration d'un jeton. Retourne nil
// (pas d'identité) sur tout échec : l'échec n'est jamais retenté.
func ParseToken(tokenString string) *Identity {
	if tokenString == "" {
		return nil
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return nil
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return &Identity{ID: id, Role: role, Email: email}
}

// ExtractToken cherche le jeton dans le header Authorization (Bearer) puis
// dans le cookie "token"
func ExtractToken(authHeader, cookie string) string {
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	return cookie
}

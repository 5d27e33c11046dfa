package middleware

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dairyops/herdwise/api/config"
	logger "github.com/dairyops/herdwise/api/logging"
)

type JSONWebKey struct {
	Kty string `json:"kty"`
	E   string `json:"e"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	Alg string `json:"alg"`
	N   string `json:"n"`
}

type CognitoClaims struct {
	jwt.StandardClaims
	CognitoGroups   []string `json:"cognito:groups"`
	CognitoUsername string   `json:"cognito:username"`
	EmailVerified   bool     `json:"email_verified"`
	Email           string   `json:"email"`
}

type Jwks struct {
	Keys []JSONWebKey `json:"keys"`
}

// GetCognitoPublicKey fetches the public key from a specified Cognito JWKS endpoint
func GetCognitoPublicKey(region, userPoolID string) (*rsa.PublicKey, error) {
	jwksUrl := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", region, userPoolID)

	resp, err := http.Get(jwksUrl)
	if err != nil {
		logger.Error("Failed to fetch JWKS", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Received non-OK HTTP status from JWKS endpoint", zap.Int("statusCode", resp.StatusCode))
		return nil, fmt.Errorf("received non-OK HTTP status from JWKS endpoint: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("Failed to read JWKS response body", zap.Error(err))
		return nil, err
	}

	var jwks Jwks
	err = json.Unmarshal(body, &jwks)
	if err != nil {
		logger.Error("Failed to unmarshal JWKS JSON", zap.Error(err))
		return nil, err
	}

	if len(jwks.Keys) == 0 {
		logger.Error("No keys found in JWKS")
		return nil, fmt.Errorf("no keys found in JWKS")
	}

	key := jwks.Keys[0] // Assuming the first key is the one needed; consider more robust selection mechanisms
	nBytes, err := base64.RawURLEncoding.DecodeString(key.N)
	if err != nil {
		logger.Error("Failed to decode modulus", zap.Error(err))
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(key.E)
	if err != nil {
		logger.Error("Failed to decode exponent", zap.Error(err))
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes).Int64()

	publicKey := &rsa.PublicKey{
		N: n,
		E: int(e),
	}
	return publicKey, nil
}

// AdminAuthMiddleware guards the flag administration surface. Only members of
// the named Cognito groups may change rollout configuration.
func AdminAuthMiddleware(requiredGroups []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			logger.Warn("No Authorization token provided")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			logger.Error("Error parsing token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !isUserInGroups(claims, requiredGroups) {
			logger.Warn("User does not have the required groups",
				zap.String("sub", claims.Subject))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		// Add the user's sub to the context
		c.Set("requestingUserID", claims.Subject)
		c.Set("requestingUser", claims.CognitoUsername)

		c.Next()
	}
}

func parseToken(tokenString string) (*CognitoClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	key, err := GetCognitoPublicKey(config.GetString("auth.cognito.aws_region"), config.GetString("auth.cognito.user_pool_id"))
	if err != nil {
		logger.Error("Error getting public key", zap.Error(err))
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &CognitoClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*CognitoClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token or wrong claims type")
}

func isUserInGroups(claims *CognitoClaims, requiredGroups []string) bool {
	for _, group := range requiredGroups {
		for _, userGroup := range claims.CognitoGroups {
			if userGroup == group {
				return true
			}
		}
	}
	return false
}

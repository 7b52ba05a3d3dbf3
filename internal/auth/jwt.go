package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"prayerchain/internal/normalize"
)

// JWTManager signs and validates the session tokens carried in the session
// cookie. It holds one or more HMAC keys so tokens signed before a key
// rotation still verify.
type JWTManager struct {
	keys      map[string]string // kid -> secret
	activeKid string
	duration  time.Duration
}

// Claims is the session token payload: the authenticated agent's id and
// email.
type Claims struct {
	AgentID string `json:"agent_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTManager returns a manager with a single signing key.
func NewJWTManager(secretKey string, duration time.Duration) *JWTManager {
	return NewJWTManagerFromKeys(map[string]string{"default": secretKey}, "default", duration)
}

// NewJWTManagerFromKeys returns a manager holding several keys, signing
// new tokens with activeKid. If activeKid is empty or unknown an arbitrary
// key is used.
func NewJWTManagerFromKeys(keys map[string]string, activeKid string, duration time.Duration) *JWTManager {
	if _, ok := keys[activeKid]; !ok {
		for kid := range keys {
			activeKid = kid
			break
		}
	}
	return &JWTManager{
		keys:      keys,
		activeKid: activeKid,
		duration:  duration,
	}
}

// GenerateToken issues a signed session token for an agent. The email
// claim is stored normalized.
func (m *JWTManager) GenerateToken(agentID bson.ObjectID, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(m.duration)

	claims := &Claims{
		AgentID: agentID.Hex(),
		Email:   normalize.Email(email),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = m.activeKid

	tokenString, err := token.SignedString([]byte(m.keys[m.activeKid]))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// VerifyToken parses and validates a session token and returns its claims.
func (m *JWTManager) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		// pick the key by kid header; tokens signed before a rotation
		// carry the older kid and still verify
		kid, _ := token.Header["kid"].(string)
		secret, ok := m.keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown signing key id: %q", kid)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// AgentObjectID returns the claim's agent id as an ObjectID.
func (c *Claims) AgentObjectID() (bson.ObjectID, error) {
	return bson.ObjectIDFromHex(c.AgentID)
}

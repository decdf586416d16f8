package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles reconocidos por el middleware RBAC.
const (
	RoleAdmin      = "admin"     // administra el plan de cuentas y la contabilidad
	RoleAccountant = "contabile" // registra movimientos y documentos
	RoleViewer     = "viewer"    // solo consulta
)

var (
	ErrNoSecret     = errors.New("jwt: secret vacío")
	ErrNoCompany    = errors.New("jwt: company_id vacío")
	ErrUnknownRole  = errors.New("jwt: rol no reconocido")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// ValidRole indica si role es uno de los roles de la API.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAccountant, RoleViewer:
		return true
	}
	return false
}

// Principal identidad que viaja en el token. Toda operación se limita a CompanyID.
type Principal struct {
	UserID    string
	CompanyID string
	Role      string
}

// CanWrite admin y contabile contabilizan; viewer solo consulta.
func (p Principal) CanWrite() bool {
	return p.Role == RoleAdmin || p.Role == RoleAccountant
}

type claims struct {
	jwt.RegisteredClaims
	CompanyID string `json:"company_id"`
	Role      string `json:"role,omitempty"`
}

// Issuer firma (HS256) y verifica los tokens de la API.
type Issuer struct {
	secret []byte
	name   string
	ttl    time.Duration
}

// NewIssuer crea el emisor. name se escribe en iss y se exige al verificar si no está vacío.
func NewIssuer(secret, name string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Issuer{secret: []byte(secret), name: name, ttl: ttl}, nil
}

// Issue firma un token para p con la vigencia del emisor.
// Un rol vacío es válido aquí: el middleware lo rechaza con 401.
func (i *Issuer) Issue(p Principal) (string, error) {
	return i.IssueFor(p, i.ttl)
}

// IssueFor como Issue pero con vigencia explícita (ttl negativo = token ya vencido).
func (i *Issuer) IssueFor(p Principal, ttl time.Duration) (string, error) {
	if p.CompanyID == "" {
		return "", ErrNoCompany
	}
	if p.Role != "" && !ValidRole(p.Role) {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, p.Role)
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.name,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		CompanyID: p.CompanyID,
		Role:      p.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
}

// Verify valida firma, vencimiento y emisor, y devuelve el Principal del token.
func (i *Issuer) Verify(tokenString string) (Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if i.name != "" {
		opts = append(opts, jwt.WithIssuer(i.name))
	}
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || c.CompanyID == "" {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: c.Subject, CompanyID: c.CompanyID, Role: c.Role}, nil
}

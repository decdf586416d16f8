package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/pkg/jwt"
)

func newIssuer(t *testing.T, secret, name string) *jwt.Issuer {
	t.Helper()
	iss, err := jwt.NewIssuer(secret, name, 5*time.Minute)
	require.NoError(t, err)
	return iss
}

func TestIssueVerify_IdaYVuelta(t *testing.T) {
	iss := newIssuer(t, "secreto", "contabilidad-api")
	token, err := iss.Issue(jwt.Principal{UserID: "u1", CompanyID: "c1", Role: jwt.RoleAccountant})
	require.NoError(t, err)

	p, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, jwt.Principal{UserID: "u1", CompanyID: "c1", Role: jwt.RoleAccountant}, p)
	assert.True(t, p.CanWrite())
}

func TestVerify_Rechazos(t *testing.T) {
	iss := newIssuer(t, "secreto", "contabilidad-api")
	token, err := iss.Issue(jwt.Principal{UserID: "u1", CompanyID: "c1", Role: jwt.RoleAdmin})
	require.NoError(t, err)

	_, err = newIssuer(t, "otro", "contabilidad-api").Verify(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "firma distinta")

	_, err = newIssuer(t, "secreto", "ledgerctl").Verify(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "emisor distinto")

	expired, err := iss.IssueFor(jwt.Principal{UserID: "u1", CompanyID: "c1", Role: jwt.RoleAdmin}, -time.Minute)
	require.NoError(t, err)
	_, err = iss.Verify(expired)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken, "vencido")

	_, err = iss.Verify("no-es-un-token")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestIssue_DatosInvalidos(t *testing.T) {
	iss := newIssuer(t, "secreto", "")

	_, err := iss.Issue(jwt.Principal{UserID: "u1", Role: jwt.RoleAdmin})
	assert.ErrorIs(t, err, jwt.ErrNoCompany)

	_, err = iss.Issue(jwt.Principal{UserID: "u1", CompanyID: "c1", Role: "bodeguero"})
	assert.ErrorIs(t, err, jwt.ErrUnknownRole)

	_, err = jwt.NewIssuer("", "x", time.Minute)
	assert.ErrorIs(t, err, jwt.ErrNoSecret)
}

func TestPrincipal_Permisos(t *testing.T) {
	assert.True(t, jwt.Principal{Role: jwt.RoleAdmin}.CanWrite())
	assert.False(t, jwt.Principal{Role: jwt.RoleViewer}.CanWrite())
	assert.False(t, jwt.Principal{}.CanWrite())
	assert.True(t, jwt.ValidRole(jwt.RoleViewer))
	assert.False(t, jwt.ValidRole(""))
}

package err

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthMissingMatchesSentinel(t *testing.T) {
	e := fmt.Errorf("fetch: %w", &AuthMissingError{Source: "FJORD_JWT_TOKEN"})

	require.ErrorIs(t, e, ErrAuthMissing)

	var auth *AuthMissingError
	require.ErrorAs(t, e, &auth)
	require.Equal(t, "FJORD_JWT_TOKEN", auth.Source)
	require.Contains(t, e.Error(), "FJORD_JWT_TOKEN")
}

func TestTransportErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	withCause := &TransportError{Resource: "reports/unchecked", Page: 2, Err: cause}
	require.ErrorIs(t, withCause, cause)
	require.Equal(t, "fetching reports/unchecked page 2: connection refused", withCause.Error())

	withStatus := &TransportError{Resource: "products/not_responded", Page: 1, StatusCode: http.StatusUnauthorized}
	require.Equal(t, "fetching products/not_responded page 1: unexpected status 401", withStatus.Error())
}

func TestAttrs(t *testing.T) {
	attrs := Attrs(&TransportError{Resource: "reports/unchecked", Page: 3, StatusCode: 500})
	require.Equal(t, []any{"resource", "reports/unchecked", "page", 3, "status", 500}, attrs)

	attrs = Attrs(&DecodeError{Resource: "reports/unchecked", Page: 1, Err: errors.New("bad")})
	require.Equal(t, []any{"resource", "reports/unchecked", "page", 1}, attrs)

	attrs = Attrs(&AuthMissingError{Source: "FJORD_JWT_TOKEN"})
	require.Len(t, attrs, 2)
	require.Equal(t, "suggestion", attrs[0])

	require.Nil(t, Attrs(errors.New("plain")))
	require.Equal(t, []any{"code", "x"}, Attrs(errors.New(`{"code":"x"}`)))
}

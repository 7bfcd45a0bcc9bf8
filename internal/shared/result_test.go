package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultJSONCarriesExactlyOneVariant(t *testing.T) {
	ok, err := json.Marshal(OK(map[string]string{"slug": "x"}))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":true,"data":{"slug":"x"}}`, string(ok))

	failed, err := json.Marshal(Fail[int](Forbidden("")))
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"error":{"code":"FORBIDDEN","message":"operation not permitted"}}`, string(failed))
}

func TestFailWithNilBecomesInternal(t *testing.T) {
	res := Fail[string](nil)
	require.False(t, res.Success)
	require.Equal(t, CodeInternal, res.Code())
}

func TestUnwrap(t *testing.T) {
	v, err := OK(3).Unwrap()
	require.NoError(t, err)
	require.Equal(t, 3, v)

	_, err = Fail[int](Conflict("slug taken")).Unwrap()
	require.ErrorIs(t, err, ErrConflict)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	svcErr := Internal(cause)
	require.ErrorIs(t, svcErr, cause)
	require.Equal(t, cause, svcErr.Cause())

	body, err := json.Marshal(Fail[int](svcErr))
	require.NoError(t, err)
	require.NotContains(t, string(body), "connection refused")
}

func TestAsServiceErrorThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", Validation("", Issue{Path: "name", Rule: "required", Message: "name is required"}))
	svcErr, ok := AsServiceError(wrapped)
	require.True(t, ok)
	require.Len(t, svcErr.Issues(), 1)
	require.Equal(t, CodeValidation, CodeOf(wrapped))
	require.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, 0, 0, 45)
	require.NotNil(t, page.Items)
	require.Equal(t, 1, page.Page)
	require.Equal(t, DefaultPageSize, page.PageSize)
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 40, Offset(3, 20))
	_, size := NormalizePage(1, 1000)
	require.Equal(t, MaxPageSize, size)
}

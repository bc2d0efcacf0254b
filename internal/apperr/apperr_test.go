package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, (&Error{Message: "x"}).HTTPStatus())
	assert.Equal(t, http.StatusNotFound, NotFound("missing").HTTPStatus())
}

func TestWrapAndAs(t *testing.T) {
	cause := errors.New("socket closed")
	err := fmt.Errorf("list: %w", Internal("Failed to fetch internships", cause))

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "Failed to fetch internships", appErr.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to fetch internships: socket closed", appErr.Error())
	assert.NotEmpty(t, appErr.Stack)
}

func TestAsRejectsPlainErrors(t *testing.T) {
	_, ok := As(errors.New("plain"))
	assert.False(t, ok)
}

func TestFromPanicKeepsStack(t *testing.T) {
	err := FromPanic(errors.New("nil map"), []byte("goroutine 1 [running]"))
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Equal(t, "goroutine 1 [running]", err.Stack)
}

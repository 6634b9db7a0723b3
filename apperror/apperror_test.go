package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindMissingField, http.StatusBadRequest},
		{KindInvalidField, http.StatusBadRequest},
		{KindEmptyPayload, http.StatusBadRequest},
		{KindInvalidIdentifier, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUpstream, http.StatusBadGateway},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Status())
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("register: %w", MissingField("phone"))

	assert.Equal(t, KindMissingField, KindOf(err))
	assert.True(t, Is(err, KindMissingField))
	assert.False(t, Is(err, KindNotFound))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "phone is required", MissingField("phone").Error())
	assert.Equal(t, "User not found", NotFound("User").Error())
	assert.Equal(t, "Empty image", EmptyPayload("Empty image").Error())
}

func TestUpstreamTruncatesDetail(t *testing.T) {
	err := Upstream("Weather API error", errors.New(strings.Repeat("x", 500)))

	assert.Equal(t, KindUpstream, err.Kind)
	assert.Equal(t, "Weather API error: "+strings.Repeat("x", UpstreamDetailLimit), err.Message)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "⚠️", Truncate("⚠️ Error", 2))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("socket closed")
	err := Internal("Cannot insert user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Cannot insert user: socket closed", err.Error())
}

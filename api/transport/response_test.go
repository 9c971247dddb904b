package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskgo/client/domain"
)

func TestMessageUnmarshal(t *testing.T) {
	t.Run("plain string", func(t *testing.T) {
		var m Message
		require.NoError(t, json.Unmarshal([]byte(`"done"`), &m))
		require.Equal(t, "done", m.String())
	})

	t.Run("array joined with newlines", func(t *testing.T) {
		var m Message
		require.NoError(t, json.Unmarshal([]byte(`["first","second"]`), &m))
		require.Equal(t, "first\nsecond", m.String())
	})

	t.Run("other shapes rejected", func(t *testing.T) {
		var m Message
		require.Error(t, json.Unmarshal([]byte(`{"oops":1}`), &m))
	})
}

func TestErrorBodyJoinedText(t *testing.T) {
	t.Run("field errors win over message", func(t *testing.T) {
		b := ErrorBody{
			Errors: map[string][]string{
				"password": {"too short"},
				"email":    {"required", "must be valid"},
			},
			Message: "ignored",
		}
		require.Equal(t, "required\nmust be valid\ntoo short", b.JoinedText())
	})

	t.Run("falls back to message", func(t *testing.T) {
		b := ErrorBody{Message: "invalid credentials"}
		require.Equal(t, "invalid credentials", b.JoinedText())
	})

	t.Run("nil body", func(t *testing.T) {
		var b *ErrorBody
		require.Equal(t, "", b.JoinedText())
	})
}

func TestUserPatchApplyTo(t *testing.T) {
	cached := domain.User{
		ID:     7,
		Name:   "Ana",
		Email:  "a@b.com",
		Photo:  "file://p.png",
		Role:   "user",
		Status: "active",
	}

	name := "Ana Maria"
	patch := UserPatch{Name: &name}
	patch.ApplyTo(&cached)

	require.Equal(t, "Ana Maria", cached.Name)
	// absent fields are preserved
	require.Equal(t, "a@b.com", cached.Email)
	require.Equal(t, "file://p.png", cached.Photo)
	require.Equal(t, int64(7), cached.ID)

	var nilPatch *UserPatch
	nilPatch.ApplyTo(&cached)
	require.Equal(t, "Ana Maria", cached.Name)
}

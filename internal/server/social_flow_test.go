package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doJSONList decodes a response whose body is a JSON array.
func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []map[string]any
	if len(raw) > 0 && raw[0] == '[' {
		require.NoError(t, json.Unmarshal(raw, &list))
	}
	return resp.StatusCode, list
}

func TestVozLifecycleOverHTTP(t *testing.T) {
	_, app := newTestServer(t)
	anaToken, anaID := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")
	carlosToken, _ := signupUser(t, app, "Carlos López", "carlos@friendlyvoice.app")

	// Publish a voz.
	status, voz := doJSON(t, app, http.MethodPost, "/api/voces", anaToken, map[string]string{
		"audio_url": "https://cdn.example.com/v1.mp3",
		"caption":   "hola mundo",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Ana Pérez", voz["user_name"])
	vozID := int(voz["id"].(float64))

	// The feed is public and shows the new voz.
	status, feed := doJSONList(t, app, http.MethodGet, "/api/voces", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, feed, 1)
	assert.Equal(t, "hola mundo", feed[0]["caption"])
	assert.Equal(t, false, feed[0]["is_liked"])

	// Like as carlos; the response carries fresh counters.
	status, liked := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/voces/%d/like", vozID), carlosToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), liked["likes_count"])
	assert.Equal(t, true, liked["is_liked"])

	// Liked state is viewer-relative on the public feed.
	status, feed = doJSONList(t, app, http.MethodGet, "/api/voces", carlosToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, feed, 1)
	assert.Equal(t, true, feed[0]["is_liked"])

	status, feed = doJSONList(t, app, http.MethodGet, "/api/voces", anaToken)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, feed[0]["is_liked"])

	// Comment and read it back through the public comments route.
	status, commented := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/voces/%d/comments", vozID), carlosToken, map[string]string{
		"text": "¡qué bueno!",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(1), commented["comments_count"])

	status, comments := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/voces/%d/comments", vozID), "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, comments, 1)
	assert.Equal(t, "¡qué bueno!", comments[0]["text"])
	assert.Equal(t, "Carlos López", comments[0]["user_name"])

	// The author's voces are listable per user.
	status, userVoces := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/voces", anaID), carlosToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, userVoces, 1)

	// Unknown voz is a 404, bad ID a 400.
	status, _ = doJSON(t, app, http.MethodGet, "/api/voces/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = doJSON(t, app, http.MethodGet, "/api/voces/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDirectMessageFlowOverHTTP(t *testing.T) {
	_, app := newTestServer(t)
	anaToken, anaID := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")
	carlosToken, carlosID := signupUser(t, app, "Carlos López", "carlos@friendlyvoice.app")

	sendDM := func(token string, recipient uint) int {
		status, _ := doJSON(t, app, http.MethodPost, "/api/messages", token, map[string]any{
			"recipient_id": recipient,
			"voice_url":    "https://cdn.example.com/dm.mp3",
		})
		return status
	}

	// No follow relationship yet.
	require.Equal(t, http.StatusForbidden, sendDM(anaToken, carlosID))

	// One-way follow is still not enough.
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", carlosID), anaToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, http.StatusForbidden, sendDM(anaToken, carlosID))

	// The follow-back unlocks messaging in both directions.
	status, followStatus := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", anaID), carlosToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, followStatus["following"])

	require.Equal(t, http.StatusCreated, sendDM(anaToken, carlosID))
	require.Equal(t, http.StatusCreated, sendDM(anaToken, carlosID))

	// The mutuals list now contains exactly the other party.
	status, mutuals := doJSONList(t, app, http.MethodGet, "/api/users/me/mutuals", anaToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, mutuals, 1)
	assert.Equal(t, float64(carlosID), mutuals[0]["id"])

	// Follow status reports mutuality.
	status, followState := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d/follow", anaID), carlosToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, followState["mutual"])

	// Carlos sees one chat with two unread messages.
	status, chats := doJSONList(t, app, http.MethodGet, "/api/chats", carlosToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, chats, 1)
	assert.Equal(t, float64(anaID), chats[0]["partner_id"])
	assert.Equal(t, "Ana Pérez", chats[0]["partner_name"])
	assert.Equal(t, float64(2), chats[0]["unread_count"])

	// Opening the conversation marks it read.
	status, msgs := doJSONList(t, app, http.MethodGet, fmt.Sprintf("/api/messages/%d", anaID), carlosToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, msgs, 2)

	status, chats = doJSONList(t, app, http.MethodGet, "/api/chats", carlosToken)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, chats, 1)
	assert.Equal(t, float64(0), chats[0]["unread_count"])

	// Unfollow severs the mutual gate again.
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", anaID), carlosToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, http.StatusForbidden, sendDM(anaToken, carlosID))
}

func TestUserDirectoryAndProfiles(t *testing.T) {
	_, app := newTestServer(t)
	anaToken, anaID := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")
	_, carlosID := signupUser(t, app, "Carlos López", "carlos@friendlyvoice.app")

	status, users := doJSONList(t, app, http.MethodGet, "/api/users", anaToken)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, users, 2)

	// Profile update round-trip.
	status, updated := doJSON(t, app, http.MethodPut, "/api/users/me", anaToken, map[string]any{
		"bio":       "Me gusta grabar sonidos.",
		"interests": []string{"música", "viajes"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Me gusta grabar sonidos.", updated["bio"])

	status, profile := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", anaID), anaToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Me gusta grabar sonidos.", profile["bio"])

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", carlosID+100), anaToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAvatarGenerationOverHTTP(t *testing.T) {
	_, app := newTestServer(t)
	anaToken, _ := signupUser(t, app, "Ana Pérez", "ana@friendlyvoice.app")

	status, updated := doJSON(t, app, http.MethodPost, "/api/users/me/avatar/generate", anaToken, map[string]string{
		"audio": "data:audio/webm;base64,AAAA",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, onePixelPNG, updated["avatar_url"])

	// Non-audio payloads never reach the generator.
	status, _ = doJSON(t, app, http.MethodPost, "/api/users/me/avatar/generate", anaToken, map[string]string{
		"audio": "https://cdn.example.com/v.mp3",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// Voice samples attach to the profile.
	status, sample := doJSON(t, app, http.MethodPost, "/api/users/me/voice-samples", anaToken, map[string]string{
		"title": "Mi presentación",
		"url":   "https://cdn.example.com/sample.mp3",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Mi presentación", sample["title"])

	status, me := doJSON(t, app, http.MethodGet, "/api/users/me", anaToken, nil)
	require.Equal(t, http.StatusOK, status)
	samples, _ := me["voice_samples"].([]any)
	require.Len(t, samples, 1)
}

func TestEcosystemRoutes(t *testing.T) {
	_, app := newTestServer(t)

	status, list := doJSONList(t, app, http.MethodGet, "/api/ecosystems", "")
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 4)

	status, eco := doJSON(t, app, http.MethodGet, "/api/ecosystems/eco-viajes", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Viajeros", eco["name"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/ecosystems/eco-nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthEndpoints(t *testing.T) {
	_, app := newTestServer(t)

	status, body := doJSON(t, app, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "up", body["status"])

	status, body = doJSON(t, app, http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "FriendlyVoice", body["message"])
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "healthy", checks["redis"])
}

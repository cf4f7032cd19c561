package server

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"partnerId", "partner ID"},
		{"someOtherId", "some other ID"},
		{"weird", "weird"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeParam(tt.param), tt.param)
	}
}

func TestSplitCamel(t *testing.T) {
	assert.Equal(t, []string{"partner"}, splitCamel("partner"))
	assert.Equal(t, []string{"some", "Other", "Thing"}, splitCamel("someOtherThing"))
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()

	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePagination(c, 20)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Limit: 20, Offset: 0}},
		{"explicit values", "?limit=5&offset=30", Pagination{Limit: 5, Offset: 30}},
		{"limit capped", "?limit=5000", Pagination{Limit: 100, Offset: 0}},
		{"negative values fall back", "?limit=-1&offset=-5", Pagination{Limit: 20, Offset: 0}},
		{"garbage falls back", "?limit=abc", Pagination{Limit: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, got)
		})
	}
}

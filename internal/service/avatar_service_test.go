package service

import (
	"context"
	"errors"
	"testing"

	"friendlyvoice/internal/featureflags"
	"friendlyvoice/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// onePixelPNG is a valid 1x1 PNG, small enough to inline.
const onePixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

const sampleAudioURI = "data:audio/webm;base64,AAAA"

type stubGenerator struct {
	result string
	err    error
	calls  int
}

func (g *stubGenerator) GenerateAvatar(ctx context.Context, mimeType string, audio []byte) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.result, nil
}

func newAvatarFixture(t *testing.T, gen *stubGenerator, flags string) (*AvatarService, *gorm.DB) {
	db := setupServiceDB(t)
	svc := NewAvatarService(repository.NewUserRepository(db), gen, featureflags.NewManager(flags))
	return svc, db
}

func TestAvatarService_GenerateAppliesResult(t *testing.T) {
	t.Parallel()
	gen := &stubGenerator{result: onePixelPNG}
	svc, db := newAvatarFixture(t, gen, "")
	ana := createTestUser(t, db, "Ana Pérez", "ana@friendlyvoice.app")

	updated, err := svc.GenerateAvatar(context.Background(), ana.ID, sampleAudioURI)
	require.NoError(t, err)
	assert.Equal(t, onePixelPNG, updated.AvatarURL)
	assert.Equal(t, 1, gen.calls)
}

func TestAvatarService_RejectsNonAudioPayload(t *testing.T) {
	t.Parallel()
	gen := &stubGenerator{result: onePixelPNG}
	svc, db := newAvatarFixture(t, gen, "")
	ana := createTestUser(t, db, "Ana Pérez", "ana@friendlyvoice.app")

	_, err := svc.GenerateAvatar(context.Background(), ana.ID, onePixelPNG)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
	assert.Zero(t, gen.calls)

	_, err = svc.GenerateAvatar(context.Background(), ana.ID, "data:audio/webm;base64,!!!")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestAvatarService_UpstreamFailureKeepsAvatar(t *testing.T) {
	t.Parallel()
	gen := &stubGenerator{err: errors.New("model overloaded")}
	svc, db := newAvatarFixture(t, gen, "")
	ana := createTestUser(t, db, "Ana Pérez", "ana@friendlyvoice.app")
	before := ana.AvatarURL

	_, err := svc.GenerateAvatar(context.Background(), ana.ID, sampleAudioURI)
	assertAppErrorCode(t, err, "UPSTREAM_ERROR")

	var avatarURL string
	require.NoError(t, db.Table("users").Where("id = ?", ana.ID).Select("avatar_url").Scan(&avatarURL).Error)
	assert.Equal(t, before, avatarURL)
}

func TestAvatarService_UnusableOutputKeepsAvatar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		result string
	}{
		{"empty output", "   "},
		{"not a data uri", "https://cdn.example.com/a.png"},
		{"wrong media type", "data:text/plain;base64,aG9sYQ=="},
		{"undecodable image", "data:image/png;base64,aG9sYQ=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, db := newAvatarFixture(t, &stubGenerator{result: tt.result}, "")
			ana := createTestUser(t, db, "Ana Pérez", "ana@friendlyvoice.app")
			before := ana.AvatarURL

			_, err := svc.GenerateAvatar(context.Background(), ana.ID, sampleAudioURI)
			assertAppErrorCode(t, err, "UPSTREAM_ERROR")

			var avatarURL string
			require.NoError(t, db.Table("users").Where("id = ?", ana.ID).Select("avatar_url").Scan(&avatarURL).Error)
			assert.Equal(t, before, avatarURL)
		})
	}
}

func TestAvatarService_KillSwitch(t *testing.T) {
	t.Parallel()
	gen := &stubGenerator{result: onePixelPNG}
	svc, db := newAvatarFixture(t, gen, "avatar_generation=off")
	ana := createTestUser(t, db, "Ana Pérez", "ana@friendlyvoice.app")

	_, err := svc.GenerateAvatar(context.Background(), ana.ID, sampleAudioURI)
	assertAppErrorCode(t, err, "FORBIDDEN")
	assert.Zero(t, gen.calls)
}

func TestAvatarService_UnknownUser(t *testing.T) {
	t.Parallel()
	svc, _ := newAvatarFixture(t, &stubGenerator{result: onePixelPNG}, "")

	_, err := svc.GenerateAvatar(context.Background(), 999, sampleAudioURI)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

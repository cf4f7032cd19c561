// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"friendlyvoice/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes the seeder.
type Options struct {
	SkipBcrypt bool // dev fast mode: store the demo password in plain text
	MaxDays    int  // spread created_at over this many days back (default 90)
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var interestPool = []string{
	"música", "viajes", "cocina", "fotografía", "tecnología", "cine",
	"libros", "deporte", "arte", "naturaleza", "podcasts", "idiomas",
}

var personalityPool = []string{
	"curiosa", "aventurero", "tranquila", "creativo", "optimista",
	"analítica", "espontáneo", "empática",
}

// pick returns n distinct random entries from pool.
func (f *Factory) pick(pool []string, n int) []string {
	idx := f.rng.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

// pastTime returns a timestamp spread over the configured window.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	return time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rng.Intn(24)) * time.Hour).
		Add(-time.Duration(f.rng.Intn(60)) * time.Minute)
}

// sampleAudioURL returns one of the public sample tracks used for fake voces.
func (f *Factory) sampleAudioURL() string {
	return fmt.Sprintf("https://www.soundhelix.com/examples/mp3/SoundHelix-Song-%d.mp3", f.rng.Intn(16)+1)
}

// CreateUser constructs and persists a random user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.Name()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) +
		fmt.Sprintf("%d@%s", gofakeit.Number(1, 999), gofakeit.DomainName())
	user := &models.User{
		Name:            name,
		Email:           email,
		AvatarURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Bio:             gofakeit.Sentence(10),
		BioSoundURL:     f.sampleAudioURL(),
		Interests:       f.pick(interestPool, 3),
		PersonalityTags: f.pick(personalityPool, 2),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateVoz constructs and persists a voice post for the given user.
func (f *Factory) CreateVoz(user *models.User, overrides ...func(*models.Voz)) (*models.Voz, error) {
	voz := &models.Voz{
		UserID:        user.ID,
		UserName:      user.Name,
		UserAvatarURL: user.AvatarURL,
		AudioURL:      f.sampleAudioURL(),
		Caption:       gofakeit.Sentence(8),
		CreatedAt:     f.pastTime(),
	}

	for _, override := range overrides {
		override(voz)
	}

	if err := f.db.Create(voz).Error; err != nil {
		return nil, err
	}
	return voz, nil
}

// CreateComment persists a comment by the given user on the given voz.
func (f *Factory) CreateComment(user *models.User, voz *models.Voz) (*models.VozComment, error) {
	comment := &models.VozComment{
		VozID:         voz.ID,
		UserID:        user.ID,
		UserName:      user.Name,
		UserAvatarURL: user.AvatarURL,
		Text:          gofakeit.Sentence(6),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Follow persists a follow edge. Duplicate edges are ignored.
func (f *Factory) Follow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return nil
	}
	return f.db.Exec(
		"INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (follower_id, followee_id) DO NOTHING",
		followerID, followeeID,
	).Error
}

// Like persists a like. Duplicate likes are ignored.
func (f *Factory) Like(userID uint, vozID uint) error {
	return f.db.Exec(
		"INSERT INTO voz_likes (voz_id, user_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (voz_id, user_id) DO NOTHING",
		vozID, userID,
	).Error
}

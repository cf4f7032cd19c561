package seed

import (
	"fmt"
	"log"

	"friendlyvoice/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given DB.
func NewSeeder(db *gorm.DB, opts ...Options) *Seeder {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	return &Seeder{db: db, factory: NewFactory(db, o)}
}

// ClearAll deletes all seedable data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []string{
		"direct_messages", "voz_comments", "voz_likes", "voces",
		"follows", "voice_samples", "users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// fixtureUser describes one of the well-known demo accounts.
type fixtureUser struct {
	name      string
	email     string
	bio       string
	interests []string
	tags      []string
}

var fixtureUsers = []fixtureUser{
	{
		name:      "Ana Pérez",
		email:     "ana@friendlyvoice.app",
		bio:       "Cantante de ducha profesional. Comparto lo que descubro.",
		interests: []string{"música", "viajes"},
		tags:      []string{"curiosa", "optimista"},
	},
	{
		name:      "Carlos López",
		email:     "carlos@friendlyvoice.app",
		bio:       "Cuento historias de producción y de vez en cuando alguna receta.",
		interests: []string{"tecnología", "cocina"},
		tags:      []string{"analítico", "tranquilo"},
	},
	{
		name:      "Laura García",
		email:     "laura@friendlyvoice.app",
		bio:       "Audio-postales desde donde me pille.",
		interests: []string{"viajes", "fotografía"},
		tags:      []string{"aventurera", "espontánea"},
	},
}

// Fixture creates the well-known demo accounts with a small, fully mutual
// follow mesh, a voz each, and a short conversation. Idempotent only on a
// clean database.
func (s *Seeder) Fixture() ([]*models.User, error) {
	users := make([]*models.User, 0, len(fixtureUsers)+1)
	for i, fu := range fixtureUsers {
		fu := fu
		u, err := s.factory.CreateUser(func(u *models.User) {
			u.Name = fu.name
			u.Email = fu.email
			u.Bio = fu.bio
			u.Interests = fu.interests
			u.PersonalityTags = fu.tags
			u.AvatarURL = fmt.Sprintf("https://i.pravatar.cc/150?img=%d", i+10)
		})
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	// Demo account with a placeholder avatar and no bio sound, so the
	// onboarding path is reachable out of the box.
	demo, err := s.factory.CreateUser(func(u *models.User) {
		u.Name = "Demo"
		u.Email = "demo@friendlyvoice.app"
		u.Bio = ""
		u.BioSoundURL = ""
		u.AvatarURL = models.PlaceholderAvatarURL(u.Email)
		u.Interests = nil
		u.PersonalityTags = nil
	})
	if err != nil {
		return nil, err
	}
	users = append(users, demo)

	// The three named accounts all follow each other, so any pair can
	// exchange direct messages immediately.
	for _, a := range users[:len(fixtureUsers)] {
		for _, b := range users[:len(fixtureUsers)] {
			if a.ID == b.ID {
				continue
			}
			if err := s.factory.Follow(a.ID, b.ID); err != nil {
				return nil, err
			}
		}
	}

	captions := []string{
		"Probando esto de las voces, ¿se me escucha bien?",
		"Resumen del incidente de ayer en tres minutos.",
		"Sonidos del mercado de esta mañana.",
	}
	for i, u := range users[:len(fixtureUsers)] {
		caption := captions[i]
		if _, err := s.factory.CreateVoz(u, func(v *models.Voz) {
			v.Caption = caption
		}); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// SeedSocialMesh creates n random users and a sparse random follow graph.
func (s *Seeder) SeedSocialMesh(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	// Each user follows a handful of others; some follows come back.
	for _, u := range users {
		follows := s.factory.rng.Intn(6) + 1
		for j := 0; j < follows; j++ {
			target := users[s.factory.rng.Intn(len(users))]
			if target.ID == u.ID {
				continue
			}
			if err := s.factory.Follow(u.ID, target.ID); err != nil {
				return nil, err
			}
			if s.factory.rng.Intn(2) == 0 {
				if err := s.factory.Follow(target.ID, u.ID); err != nil {
					return nil, err
				}
			}
		}
	}

	log.Printf("✓ %d users seeded with follow mesh", len(users))
	return users, nil
}

// SeedEngagement creates numVoces voice posts across the given users, with
// random likes and comments.
func (s *Seeder) SeedEngagement(users []*models.User, numVoces int) ([]*models.Voz, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to seed engagement for")
	}

	voces := make([]*models.Voz, 0, numVoces)
	for i := 0; i < numVoces; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		voz, err := s.factory.CreateVoz(author)
		if err != nil {
			return nil, err
		}
		voces = append(voces, voz)

		likes := s.factory.rng.Intn(5)
		for j := 0; j < likes; j++ {
			liker := users[s.factory.rng.Intn(len(users))]
			if err := s.factory.Like(liker.ID, voz.ID); err != nil {
				return nil, err
			}
		}

		if s.factory.rng.Intn(3) == 0 {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, voz); err != nil {
				return nil, err
			}
		}
	}

	log.Printf("✓ %d voces seeded with likes and comments", len(voces))
	return voces, nil
}

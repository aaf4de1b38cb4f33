// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devconnector/internal/gravatar"
	"devconnector/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var (
	statuses = []string{
		"Developer", "Junior Developer", "Senior Developer", "Manager",
		"Student or Learning", "Instructor or Teacher", "Intern",
	}

	skillPool = []string{
		"HTML", "CSS", "JavaScript", "TypeScript", "Go", "Python", "Ruby",
		"React", "Vue", "Angular", "Node.js", "PostgreSQL", "MySQL", "Redis",
		"Docker", "Kubernetes", "AWS", "GCP", "Terraform", "GraphQL",
	}

	degrees = []string{
		"Bachelor of Science", "Master of Science", "Associate Degree",
		"Bootcamp Certificate", "PhD",
	}

	fields = []string{
		"Computer Science", "Software Engineering", "Information Systems",
		"Mathematics", "Electrical Engineering", "Web Development",
	}
)

// Seeder builds domain entities and persists them to the database.
type Seeder struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	tables := []interface{}{
		&models.Like{}, &models.Comment{}, &models.Post{},
		&models.Experience{}, &models.Education{}, &models.Profile{},
		&models.User{},
	}
	for _, t := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(t).Error; err != nil {
			return fmt.Errorf("failed to clean table: %w", err)
		}
	}
	return nil
}

// SeedUsers creates n users, all with the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("%s%d@%s",
			strings.ToLower(strings.ReplaceAll(name, " ", ".")), i, gofakeit.DomainName())

		user := &models.User{
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Avatar:   gravatar.URL(email),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", email, err)
		}
		users = append(users, user)
	}

	log.Printf("Created %d users", len(users))
	return users, nil
}

// SeedProfiles gives roughly three quarters of the users a developer
// profile with experience and education entries.
func (s *Seeder) SeedProfiles(users []*models.User) error {
	count := 0
	for _, user := range users {
		if s.rnd.Intn(4) == 0 {
			continue
		}

		skills := make([]string, 0, 5)
		for _, idx := range s.rnd.Perm(len(skillPool))[:2+s.rnd.Intn(4)] {
			skills = append(skills, skillPool[idx])
		}

		profile := &models.Profile{
			UserID:  user.ID,
			Company: gofakeit.Company(),
			Website: gofakeit.URL(),
			Location: fmt.Sprintf("%s, %s",
				gofakeit.City(), gofakeit.StateAbr()),
			Status:         statuses[s.rnd.Intn(len(statuses))],
			Skills:         skills,
			Bio:            gofakeit.Sentence(12),
			GithubUsername: gofakeit.Username(),
			Social: models.SocialLinks{
				Twitter:  fmt.Sprintf("https://twitter.com/%s", gofakeit.Username()),
				Linkedin: fmt.Sprintf("https://linkedin.com/in/%s", gofakeit.Username()),
			},
		}
		if err := s.db.Create(profile).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		for i := 0; i < 1+s.rnd.Intn(3); i++ {
			from := time.Now().AddDate(-1-s.rnd.Intn(8), -s.rnd.Intn(12), 0)
			exp := &models.Experience{
				ProfileID:   profile.ID,
				Title:       gofakeit.JobTitle(),
				Company:     gofakeit.Company(),
				Location:    gofakeit.City(),
				From:        models.Date{Time: from},
				Current:     i == 0,
				Description: gofakeit.Sentence(10),
			}
			if !exp.Current {
				to := from.AddDate(0, 6+s.rnd.Intn(30), 0)
				exp.To = &models.Date{Time: to}
			}
			if err := s.db.Create(exp).Error; err != nil {
				return fmt.Errorf("failed to create experience: %w", err)
			}
		}

		from := time.Now().AddDate(-6-s.rnd.Intn(6), 0, 0)
		to := from.AddDate(4, 0, 0)
		edu := &models.Education{
			ProfileID:    profile.ID,
			School:       fmt.Sprintf("%s University", gofakeit.City()),
			Degree:       degrees[s.rnd.Intn(len(degrees))],
			FieldOfStudy: fields[s.rnd.Intn(len(fields))],
			From:         models.Date{Time: from},
			To:           &models.Date{Time: to},
			Description:  gofakeit.Sentence(8),
		}
		if err := s.db.Create(edu).Error; err != nil {
			return fmt.Errorf("failed to create education: %w", err)
		}

		count++
	}

	log.Printf("Created %d profiles", count)
	return nil
}

// SeedPosts creates n posts by random users, with a spread of likes and
// comments across the user base.
func (s *Seeder) SeedPosts(users []*models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to seed posts for")
	}

	likes, comments := 0, 0
	for i := 0; i < n; i++ {
		author := users[s.rnd.Intn(len(users))]
		post := &models.Post{
			UserID:    author.ID,
			Name:      author.Name,
			Avatar:    author.Avatar,
			Text:      gofakeit.Paragraph(1, 2, 8, " "),
			CreatedAt: time.Now().Add(-time.Duration(s.rnd.Intn(90*24)) * time.Hour),
		}
		if err := s.db.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		for _, idx := range s.rnd.Perm(len(users))[:s.rnd.Intn(len(users)/2+1)] {
			like := &models.Like{PostID: post.ID, UserID: users[idx].ID}
			if err := s.db.Create(like).Error; err != nil {
				return fmt.Errorf("failed to create like: %w", err)
			}
			likes++
		}

		for j := 0; j < s.rnd.Intn(4); j++ {
			commenter := users[s.rnd.Intn(len(users))]
			comment := &models.Comment{
				PostID: post.ID,
				UserID: commenter.ID,
				Name:   commenter.Name,
				Avatar: commenter.Avatar,
				Text:   gofakeit.Sentence(8),
			}
			if err := s.db.Create(comment).Error; err != nil {
				return fmt.Errorf("failed to create comment: %w", err)
			}
			comments++
		}
	}

	log.Printf("Created %d posts, %d likes, %d comments", n, likes, comments)
	return nil
}

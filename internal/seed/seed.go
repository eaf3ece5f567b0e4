package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"academy/internal/repository"
	"academy/internal/service"
)

// Counts reports how many records were created and updated.
type Counts struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Result summarizes one seeding run.
type Result struct {
	Users     Counts `json:"users"`
	Courses   Counts `json:"courses"`
	Resources Counts `json:"resources"`
}

// Seeder writes a Dataset through the repositories. Running it twice leaves
// the database in the same state.
type Seeder struct {
	users     repository.UserRepository
	courses   repository.CourseRepository
	resources repository.ResourceRepository
}

// NewSeeder creates a seeder.
func NewSeeder(users repository.UserRepository, courses repository.CourseRepository, resources repository.ResourceRepository) *Seeder {
	return &Seeder{users: users, courses: courses, resources: resources}
}

// Run creates missing records and updates existing ones. Progress is never touched.
func (s *Seeder) Run(ctx context.Context, data Dataset) (Result, error) {
	var res Result
	if err := data.Validate(); err != nil {
		return res, err
	}

	for _, account := range data.Users {
		created, err := s.seedUser(ctx, account)
		if err != nil {
			return res, fmt.Errorf("error seeding user %s: %w", account.ID, err)
		}
		res.Users.add(created)
	}

	for _, course := range data.Courses {
		course := course
		course.Normalize()
		existing, err := s.courses.FindByID(ctx, course.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("error checking course %s: %w", course.ID, err)
		}
		if existing != nil {
			existing.Title = course.Title
			existing.Description = course.Description
			existing.Thumbnail = course.Thumbnail
			existing.Modules = course.Modules
			if err := s.courses.Update(ctx, existing); err != nil {
				return res, fmt.Errorf("error updating course %s: %w", course.ID, err)
			}
			res.Courses.add(false)
			continue
		}
		if err := s.courses.Create(ctx, &course); err != nil {
			return res, fmt.Errorf("error creating course %s: %w", course.ID, err)
		}
		res.Courses.add(true)
	}

	for _, resource := range data.Resources {
		resource := resource
		existing, err := s.resources.FindByID(ctx, resource.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return res, fmt.Errorf("error checking resource %s: %w", resource.ID, err)
		}
		if existing != nil {
			existing.Title = resource.Title
			existing.Type = resource.Type
			existing.Category = resource.Category
			existing.Description = resource.Description
			existing.FileURL = resource.FileURL
			if err := s.resources.Update(ctx, existing); err != nil {
				return res, fmt.Errorf("error updating resource %s: %w", resource.ID, err)
			}
			res.Resources.add(false)
			continue
		}
		if err := s.resources.Create(ctx, &resource); err != nil {
			return res, fmt.Errorf("error creating resource %s: %w", resource.ID, err)
		}
		res.Resources.add(true)
	}

	return res, nil
}

func (s *Seeder) seedUser(ctx context.Context, account Account) (bool, error) {
	existing, err := s.users.FindByID(ctx, account.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if existing != nil {
		existing.Email = account.Email
		existing.FullName = account.FullName
		existing.Role = account.Role
		// keep the stored hash while it still matches
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(account.Password)) != nil {
			hash, err := service.HashPassword(account.Password)
			if err != nil {
				return false, err
			}
			existing.PasswordHash = hash
		}
		return false, s.users.Update(ctx, existing)
	}

	hash, err := service.HashPassword(account.Password)
	if err != nil {
		return false, err
	}
	user := account.User
	user.PasswordHash = hash
	return true, s.users.Create(ctx, &user)
}

func (c *Counts) add(created bool) {
	if created {
		c.Created++
		return
	}
	c.Updated++
}

// Validate checks identifiers and uniqueness before anything is written.
func (d Dataset) Validate() error {
	emails := map[string]bool{}
	ids := map[string]bool{}
	for _, u := range d.Users {
		if u.ID == "" || u.Email == "" || u.Password == "" {
			return fmt.Errorf("user %q: id, email and password are required", u.ID)
		}
		if ids[u.ID] || emails[strings.ToLower(u.Email)] {
			return fmt.Errorf("user %q: duplicate id or email", u.ID)
		}
		ids[u.ID] = true
		emails[strings.ToLower(u.Email)] = true
	}

	courses := map[string]bool{}
	for _, c := range d.Courses {
		if c.ID == "" || c.Title == "" {
			return fmt.Errorf("course %q: id and title are required", c.ID)
		}
		if courses[c.ID] {
			return fmt.Errorf("course %q: duplicate id", c.ID)
		}
		courses[c.ID] = true

		lessons := map[string]bool{}
		for _, m := range c.Modules {
			for _, l := range m.Lessons {
				if l.ID == "" || lessons[l.ID] {
					return fmt.Errorf("course %q: lesson ids must be present and unique", c.ID)
				}
				lessons[l.ID] = true
			}
		}
	}

	resources := map[string]bool{}
	for _, r := range d.Resources {
		if r.ID == "" || r.Title == "" {
			return fmt.Errorf("resource %q: id and title are required", r.ID)
		}
		if resources[r.ID] {
			return fmt.Errorf("resource %q: duplicate id", r.ID)
		}
		resources[r.ID] = true
	}
	return nil
}

// CourseIDs lists the ids of every course in the dataset.
func (d Dataset) CourseIDs() []string {
	ids := make([]string, 0, len(d.Courses))
	for _, c := range d.Courses {
		ids = append(ids, c.ID)
	}
	return ids
}

// Load reads a JSON dataset from an http(s) URL or a local file path.
func Load(ctx context.Context, src string) (Dataset, error) {
	var body []byte
	var err error
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		body, err = fetch(ctx, src)
	} else {
		body, err = os.ReadFile(src)
	}
	if err != nil {
		return Dataset{}, err
	}

	var data Dataset
	if err := json.Unmarshal(body, &data); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse JSON: %w", err)
	}
	for i := range data.Courses {
		data.Courses[i].Normalize()
	}
	return data, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset source returned status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

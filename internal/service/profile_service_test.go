package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"skillpath_backend/internal/config"
	"skillpath_backend/internal/repository"
	"skillpath_backend/internal/util"
)

func TestUpsertProfile(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileService(repository.NewProfileRepository(db))

	if _, err := s.GetProfile(1); !errors.Is(err, util.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	created, err := s.UpsertProfile(1, ProfileRequest{
		Skills:       []string{" Python ", "python", "", "SQL"},
		Goals:        "  become a data scientist ",
		HoursPerWeek: 8,
	})
	if err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if len(created.Skills) != 2 || created.Skills[0] != "Python" || created.Skills[1] != "SQL" {
		t.Fatalf("skills not cleaned: %v", created.Skills)
	}
	if created.Goals != "become a data scientist" {
		t.Fatalf("goals not trimmed: %q", created.Goals)
	}

	updated, err := s.UpsertProfile(1, ProfileRequest{Skills: []string{"Go"}, HoursPerWeek: 20})
	if err != nil {
		t.Fatalf("UpsertProfile update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("update should reuse the existing profile")
	}

	stored, err := s.GetProfile(1)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if stored.HoursPerWeek != 20 || len(stored.Skills) != 1 || stored.Skills[0] != "Go" {
		t.Fatalf("unexpected stored profile %+v", stored)
	}
}

func TestUpsertProfileValidation(t *testing.T) {
	db := newTestDB(t)
	s := NewProfileService(repository.NewProfileRepository(db))

	tooMany := make([]string, maxProfileSkills+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("skill-%d", i)
	}

	tests := []struct {
		name string
		req  ProfileRequest
	}{
		{"zero hours", ProfileRequest{HoursPerWeek: 0}},
		{"too many hours", ProfileRequest{HoursPerWeek: 81}},
		{"too many skills", ProfileRequest{HoursPerWeek: 10, Skills: tooMany}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UpsertProfile(1, tt.req); !errors.Is(err, util.ErrInvalidProfile) {
				t.Fatalf("expected ErrInvalidProfile, got %v", err)
			}
		})
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}
	s := NewAuthService(repository.NewUserRepository(db), func() *config.Config { return cfg })

	user, err := s.Register(RegisterRequest{Name: "Ada", Email: "Ada@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ada@example.com" || user.Password == "secret123" {
		t.Fatalf("unexpected stored user %+v", user)
	}

	if _, err := s.Register(RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"}); !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}

	if _, err := s.Login(LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, util.ErrInvalidLogin) {
		t.Fatalf("expected ErrInvalidLogin, got %v", err)
	}

	resp, err := s.Login(LoginRequest{Email: "ADA@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := util.ParseJWT(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "ada@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if resp.User.LastLogin == nil {
		t.Fatal("last login not recorded")
	}

	user.Disabled = true
	if err := s.UserRepo.Update(user); err != nil {
		t.Fatalf("disable user: %v", err)
	}
	if _, err := s.Login(LoginRequest{Email: "ada@example.com", Password: "secret123"}); !errors.Is(err, util.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

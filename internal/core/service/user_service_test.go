package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/curationlink/board-api/internal/core/domain"
	"github.com/curationlink/board-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// EnsureUser
// ---------------------------------------------------------------------------

func TestUserService_Ensure_ProvisionsOnFirstLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	user, created, err := svc.EnsureUser(context.Background(), "subject_abc", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true on first login")
	}
	if user.DisplayName != "未設定" {
		t.Errorf("expected placeholder display name, got %q", user.DisplayName)
	}
	if user.Username != "subject_abc" {
		t.Errorf("expected raw subject as username, got %q", user.Username)
	}
	if user.Email != "a@example.com" {
		t.Errorf("email not stored: %q", user.Email)
	}
}

func TestUserService_Ensure_SecondLoginReturnsExisting(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	first, _, _ := svc.EnsureUser(context.Background(), "subject_abc", "a@example.com")
	second, created, err := svc.EnsureUser(context.Background(), "subject_abc", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false on repeat login")
	}
	if second.CreatedAt != first.CreatedAt {
		t.Error("repeat login must not rewrite the profile")
	}
}

func TestUserService_Ensure_FirstLoginRaceReturnsWinner(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	// Another device won the race between our FindByID miss and Create: the
	// first lookup misses, Create hits the unique index, the re-read wins.
	winner := &domain.User{ID: "subject_abc", DisplayName: "winner", Username: "the_winner"}
	_ = repo.Create(context.Background(), winner)
	repo.findMisses = 1

	user, created, err := svc.EnsureUser(context.Background(), "subject_abc", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("racing login must not report a fresh profile")
	}
	if user.DisplayName != "winner" {
		t.Errorf("expected the winner's document, got %q", user.DisplayName)
	}
}

// ---------------------------------------------------------------------------
// UpdateProfile
// ---------------------------------------------------------------------------

func TestUserService_UpdateProfile_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	_, _, _ = svc.EnsureUser(context.Background(), "subject_abc", "")

	user, err := svc.UpdateProfile(context.Background(), "subject_abc", ports.ProfileInput{
		DisplayName:     "推し活アカウント",
		Username:        "oshi_fan_01",
		ProfileImageURL: "https://cdn.example.com/avatar.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DisplayName != "推し活アカウント" || user.Username != "oshi_fan_01" {
		t.Errorf("profile not updated: %+v", user)
	}
}

func TestUserService_UpdateProfile_DisplayNameRuneLimit(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	_, _, _ = svc.EnsureUser(context.Background(), "subject_abc", "")

	// 20 multibyte runes are fine, 21 are not. Byte length must not matter.
	ok := strings.Repeat("あ", 20)
	if _, err := svc.UpdateProfile(context.Background(), "subject_abc", ports.ProfileInput{
		DisplayName: ok, Username: "oshi_fan_01",
	}); err != nil {
		t.Errorf("20 runes must be accepted: %v", err)
	}

	tooLong := strings.Repeat("あ", 21)
	if _, err := svc.UpdateProfile(context.Background(), "subject_abc", ports.ProfileInput{
		DisplayName: tooLong, Username: "oshi_fan_01",
	}); !errors.Is(err, domain.ErrInvalidProfile) {
		t.Errorf("21 runes must be rejected, got %v", err)
	}
}

func TestUserService_UpdateProfile_UsernameRules(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	_, _, _ = svc.EnsureUser(context.Background(), "subject_abc", "")

	for _, bad := range []string{"abcd", "a_very_long_username", "日本語ですよ", "has space", "has-dash", ""} {
		_, err := svc.UpdateProfile(context.Background(), "subject_abc", ports.ProfileInput{
			DisplayName: "name", Username: bad,
		})
		if !errors.Is(err, domain.ErrInvalidProfile) {
			t.Errorf("username %q: expected ErrInvalidProfile, got %v", bad, err)
		}
	}

	for _, good := range []string{"abcde", "user_15_chars_x", "UPPER_lower_09"} {
		_, err := svc.UpdateProfile(context.Background(), "subject_abc", ports.ProfileInput{
			DisplayName: "name", Username: good,
		})
		if err != nil {
			t.Errorf("username %q: unexpected error %v", good, err)
		}
	}
}

func TestUserService_UpdateProfile_UsernameTaken(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	_, _, _ = svc.EnsureUser(context.Background(), "subject_a", "")
	_, _, _ = svc.EnsureUser(context.Background(), "subject_b", "")

	if _, err := svc.UpdateProfile(context.Background(), "subject_a", ports.ProfileInput{
		DisplayName: "A", Username: "shared_name",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.UpdateProfile(context.Background(), "subject_b", ports.ProfileInput{
		DisplayName: "B", Username: "shared_name",
	})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUserService_UpdateProfile_KeepingOwnUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)
	_, _, _ = svc.EnsureUser(context.Background(), "subject_a", "")

	if _, err := svc.UpdateProfile(context.Background(), "subject_a", ports.ProfileInput{
		DisplayName: "A", Username: "stable_name",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Re-submitting the form with the same username is not a conflict.
	if _, err := svc.UpdateProfile(context.Background(), "subject_a", ports.ProfileInput{
		DisplayName: "A renamed", Username: "stable_name",
	}); err != nil {
		t.Errorf("own username must stay claimable: %v", err)
	}
}

func TestUserService_Watch_DeliversSnapshot(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, discardLogger)

	user, _, err := svc.EnsureUser(context.Background(), "subject_1", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []*domain.User
	stop, err := svc.WatchUser(context.Background(), user.ID, func(u *domain.User) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stop()

	if len(got) != 1 || got[0] == nil || got[0].ID != user.ID {
		t.Fatalf("expected initial profile snapshot, got %v", got)
	}

	stop, err = svc.WatchUser(context.Background(), "nobody", func(u *domain.User) {
		got = append(got, u)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer stop()

	if len(got) != 2 || got[1] != nil {
		t.Fatalf("expected nil delivery for an unknown profile, got %v", got)
	}
}

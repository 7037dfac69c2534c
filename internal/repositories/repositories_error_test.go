package repositories

import (
	"errors"
	"strings"
	"testing"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

func TestAccountRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))
			account := models.NewAccount(0, "Ann", "not-an-email", "hash")

			if err := repo.Create(account); !errors.Is(err, shared.ErrInvalidEmail) {
				t.Fatalf("expected invalid email error, got %v", err)
			}
		})

		t.Run("DuplicateEmail", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))

			if err := repo.Create(models.NewAccount(0, "One", "ann@x.com", "hash")); err != nil {
				t.Fatalf("failed to create first account: %v", err)
			}

			err := repo.Create(models.NewAccount(0, "Two", "ann@x.com", "hash"))
			if !errors.Is(err, ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate, got %v", err)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))

			if _, err := repo.Get("nonexistent-id"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if _, err := repo.GetByEmail("nobody@x.com"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))
			account := models.NewAccount(0, "Ann", "ann@x.com", "hash")
			account.SetID("nonexistent-id")

			if err := repo.Update(account); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("Deleted", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))
			account := models.NewAccount(0, "Ann", "ann@x.com", "hash")

			if err := repo.Create(account); err != nil {
				t.Fatalf("failed to create account: %v", err)
			}
			if err := repo.Delete(account.ID()); err != nil {
				t.Fatalf("failed to delete account: %v", err)
			}

			if err := repo.Update(account); err == nil {
				t.Fatal("expected error when updating deleted account")
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("AlreadyDeleted", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))
			account := models.NewAccount(0, "Ann", "ann@x.com", "hash")

			if err := repo.Create(account); err != nil {
				t.Fatalf("failed to create account: %v", err)
			}
			if err := repo.Delete(account.ID()); err != nil {
				t.Fatalf("failed to delete account: %v", err)
			}

			if err := repo.Delete(account.ID()); err == nil {
				t.Fatal("expected error when deleting already deleted account")
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		t.Run("ExcludesDeleted", func(t *testing.T) {
			repo := NewAccountRepository(setupTestDB(t, shared.SandboxSchema))

			keep := models.NewAccount(0, "Keep", "keep@x.com", "hash")
			drop := models.NewAccount(0, "Drop", "drop@x.com", "hash")
			for _, a := range []*models.Account{keep, drop} {
				if err := repo.Create(a); err != nil {
					t.Fatal(err)
				}
			}
			if err := repo.Delete(drop.ID()); err != nil {
				t.Fatal(err)
			}

			accounts, err := repo.List(map[string]any{})
			if err != nil {
				t.Fatalf("failed to list accounts: %v", err)
			}
			if len(accounts) != 1 || accounts[0].ID() != keep.ID() {
				t.Errorf("expected only the live account, got %d", len(accounts))
			}
		})
	})
}

func TestCredentialRepositoryErrors(t *testing.T) {
	t.Run("Create Duplicate", func(t *testing.T) {
		repo := NewCredentialRepository(setupTestDB(t, shared.SandboxSchema))
		if err := repo.Create("u1", models.ProviderBoth, []byte(`{}`)); err != nil {
			t.Fatal(err)
		}
		if err := repo.Create("u1", models.ProviderBoth, []byte(`{}`)); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("Replace Missing", func(t *testing.T) {
		repo := NewCredentialRepository(setupTestDB(t, shared.SandboxSchema))
		err := repo.Replace("u1", models.ProviderFacebook, []byte(`{}`))
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if !strings.Contains(err.Error(), "facebook") {
			t.Errorf("error should name the provider: %v", err)
		}
	})

	t.Run("Closed Database", func(t *testing.T) {
		db := setupTestDB(t, shared.SandboxSchema)
		repo := NewCredentialRepository(db)
		db.Close()

		if _, err := repo.Get("u1", models.ProviderInstagram); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("expected a query failure, got %v", err)
		}
	})
}

func TestPostRepositoryErrors(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t, shared.SandboxSchema))

	long := strings.Repeat("x", models.MaxCaptionLength+1)
	if err := repo.Create(models.NewPost(0, long, "png", 1, 1, 1)); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected caption validation error, got %v", err)
	}

	if _, err := repo.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

package repo

import "testing"

func TestCanCreateRepo(t *testing.T) {
	t.Run("allows new unique name", func(t *testing.T) {
		result := CanCreateRepo(CreateRepoContext{Name: "jai"})
		if !result.Allowed {
			t.Errorf("expected allowed, got reason %q", result.Reason)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		if result := CanCreateRepo(CreateRepoContext{Name: "  "}); result.Allowed {
			t.Error("expected rejection")
		}
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		if result := CanCreateRepo(CreateRepoContext{Name: "jai", NameExists: true}); result.Allowed {
			t.Error("expected rejection")
		}
	})
}

func TestArchiveRestoreGuards(t *testing.T) {
	if result := CanArchiveRepo(ArchiveRepoContext{Status: "active"}); !result.Allowed {
		t.Errorf("active repo should archive: %q", result.Reason)
	}
	if result := CanArchiveRepo(ArchiveRepoContext{Status: "archived"}); result.Allowed {
		t.Error("archived repo should not archive again")
	}
	if result := CanRestoreRepo(RestoreRepoContext{Status: "archived"}); !result.Allowed {
		t.Errorf("archived repo should restore: %q", result.Reason)
	}
	if result := CanRestoreRepo(RestoreRepoContext{Status: "active"}); result.Allowed {
		t.Error("active repo should not restore")
	}
}

func TestCanDeleteRepo(t *testing.T) {
	if result := CanDeleteRepo(DeleteRepoContext{RepoID: "REPO-001"}); !result.Allowed {
		t.Errorf("repo without runs should delete: %q", result.Reason)
	}
	if result := CanDeleteRepo(DeleteRepoContext{RepoID: "REPO-001", HasSyncRuns: true}); result.Allowed {
		t.Error("repo with run history must not delete")
	}
}

func TestRepoIDs(t *testing.T) {
	if got := GenerateRepoID(0); got != "REPO-001" {
		t.Errorf("GenerateRepoID(0) = %q", got)
	}
	if got := ParseRepoNumber("REPO-042"); got != 42 {
		t.Errorf("ParseRepoNumber(REPO-042) = %d", got)
	}
	if got := ParseRepoNumber("bogus"); got != -1 {
		t.Errorf("ParseRepoNumber(bogus) = %d", got)
	}
}

package database

import (
	"testing"

	"github.com/google/uuid"

	"github.com/team-codebug/blogforge-app/models"
)

func TestTagAddIdempotentPerOwner(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")

	if err := d.TagRepo().Add(&models.Tag{UserID: alice.ID, Name: "golang"}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := d.TagRepo().Add(&models.Tag{UserID: alice.ID, Name: "golang"}); err != nil {
		t.Fatalf("duplicate add should be silently ignored: %v", err)
	}

	tags, err := d.TagRepo().FindByOwner(alice.ID)
	if err != nil {
		t.Fatalf("find by owner: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected exactly one tag, got %d", len(tags))
	}
}

func TestTagNamesCollideOnlyWithinOwner(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	bob := createTestUser(t, d, "bob@example.com")

	if err := d.TagRepo().Add(&models.Tag{UserID: alice.ID, Name: "shared"}); err != nil {
		t.Fatalf("alice add: %v", err)
	}
	if err := d.TagRepo().Add(&models.Tag{UserID: bob.ID, Name: "shared"}); err != nil {
		t.Fatalf("bob should be able to reuse the name: %v", err)
	}

	aliceTags, _ := d.TagRepo().FindByOwner(alice.ID)
	bobTags, _ := d.TagRepo().FindByOwner(bob.ID)
	if len(aliceTags) != 1 || len(bobTags) != 1 {
		t.Fatalf("each owner should hold one tag, got %d and %d", len(aliceTags), len(bobTags))
	}
}

func TestTagDeleteScopedToOwner(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	bob := createTestUser(t, d, "bob@example.com")

	tag := &models.Tag{UserID: alice.ID, Name: "private"}
	if err := d.TagRepo().Add(tag); err != nil {
		t.Fatalf("add: %v", err)
	}

	deleted, err := d.TagRepo().Delete(tag.ID, bob.ID)
	if err != nil {
		t.Fatalf("delete as bob: %v", err)
	}
	if deleted != 0 {
		t.Fatal("bob must not be able to delete alice's tag")
	}

	remaining, _ := d.TagRepo().FindByOwner(alice.ID)
	if len(remaining) != 1 {
		t.Fatal("alice's tag should be intact after bob's attempt")
	}

	deleted, err = d.TagRepo().Delete(tag.ID, alice.ID)
	if err != nil {
		t.Fatalf("delete as alice: %v", err)
	}
	if deleted != 1 {
		t.Fatal("alice should be able to delete her own tag")
	}
}

func TestFindByOwnerAndIDsDropsForeignTags(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	bob := createTestUser(t, d, "bob@example.com")

	mine := &models.Tag{UserID: alice.ID, Name: "mine"}
	theirs := &models.Tag{UserID: bob.ID, Name: "theirs"}
	if err := d.TagRepo().Add(mine); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.TagRepo().Add(theirs); err != nil {
		t.Fatalf("add: %v", err)
	}

	tags, err := d.TagRepo().FindByOwnerAndIDs(alice.ID, []uuid.UUID{mine.ID, theirs.ID})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != mine.ID {
		t.Fatalf("foreign tag ids must be dropped, got %+v", tags)
	}
}

package database

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/models"
)

func createTestPost(t *testing.T, d Database, ownerID uuid.UUID, title string, published bool) *models.Post {
	t.Helper()

	post := &models.Post{
		UserID:          ownerID,
		Title:           title,
		Slug:            models.Slugify(title),
		ContentMarkdown: "content of " + title,
		IsPublished:     published,
	}
	if published {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := d.PostRepo().Add(post); err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func TestFindByIDAndOwnerHidesForeignPosts(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	bob := createTestUser(t, d, "bob@example.com")
	post := createTestPost(t, d, alice.ID, "Alice Post", true)

	if _, err := d.PostRepo().FindByIDAndOwner(post.ID, alice.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}

	_, err := d.PostRepo().FindByIDAndOwner(post.ID, bob.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("foreign lookup should be record-not-found, got %v", err)
	}
}

func TestTitleTakenScopedToOwner(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	bob := createTestUser(t, d, "bob@example.com")
	createTestPost(t, d, alice.ID, "Shared Title", true)

	taken, err := d.PostRepo().TitleTaken(alice.ID, "Shared Title")
	if err != nil {
		t.Fatalf("title taken: %v", err)
	}
	if !taken {
		t.Fatal("owner's own title should count as taken")
	}

	taken, err = d.PostRepo().TitleTaken(bob.ID, "Shared Title")
	if err != nil {
		t.Fatalf("title taken: %v", err)
	}
	if taken {
		t.Fatal("another owner's title must not block bob")
	}
}

func TestUpdateContentColumnsLeavesUpdatedAtAlone(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	post := createTestPost(t, d, alice.ID, "Stable Timestamp", true)

	before, err := d.PostRepo().FindByIDAndOwner(post.ID, alice.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	err = d.PostRepo().UpdateContentColumns(post.ID, map[string]any{
		"content_markdown": "silently saved",
	})
	if err != nil {
		t.Fatalf("update columns: %v", err)
	}

	after, err := d.PostRepo().FindByIDAndOwner(post.ID, alice.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.ContentMarkdown != "silently saved" {
		t.Fatalf("content not saved: %q", after.ContentMarkdown)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("updated_at changed: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestUpdateBumpsUpdatedAt(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	post := createTestPost(t, d, alice.ID, "Visible Edit", true)

	before := post.UpdatedAt
	time.Sleep(10 * time.Millisecond)

	post.ContentMarkdown = "edited"
	if err := d.PostRepo().Update(post); err != nil {
		t.Fatalf("update: %v", err)
	}

	after, err := d.PostRepo().FindByIDAndOwner(post.ID, alice.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !after.UpdatedAt.After(before) {
		t.Fatalf("updated_at should move forward: %v -> %v", before, after.UpdatedAt)
	}
}

func TestFindPublishedExcludesDraftsAndFilters(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	bob := createTestUser(t, d, "bob@example.com")

	published := createTestPost(t, d, alice.ID, "Go Concurrency Patterns", true)
	createTestPost(t, d, bob.ID, "Hidden Draft", false)
	other := createTestPost(t, d, bob.ID, "Cooking Notes", true)

	all, err := d.PostRepo().FindPublished("")
	if err != nil {
		t.Fatalf("find published: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(all))
	}

	byTitle, err := d.PostRepo().FindPublished("CONCURRENCY")
	if err != nil {
		t.Fatalf("find published: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].ID != published.ID {
		t.Fatalf("case-insensitive title filter failed: %+v", byTitle)
	}

	// Tag match: attach a tag to bob's post and filter by it.
	tag := &models.Tag{UserID: bob.ID, Name: "recipes"}
	if err := d.TagRepo().Add(tag); err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if err := d.PostRepo().ReplaceTags(other, []models.Tag{*tag}); err != nil {
		t.Fatalf("replace tags: %v", err)
	}

	byTag, err := d.PostRepo().FindPublished("recip")
	if err != nil {
		t.Fatalf("find published: %v", err)
	}
	if len(byTag) != 1 || byTag[0].ID != other.ID {
		t.Fatalf("tag filter failed: %+v", byTag)
	}
}

func TestFindPublishedOrdersByMostRecentlyUpdated(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")

	older := createTestPost(t, d, alice.ID, "Older", true)
	time.Sleep(10 * time.Millisecond)
	createTestPost(t, d, alice.ID, "Newer", true)
	time.Sleep(10 * time.Millisecond)

	older.Description = "bumped"
	if err := d.PostRepo().Update(older); err != nil {
		t.Fatalf("update: %v", err)
	}

	posts, err := d.PostRepo().FindPublished("")
	if err != nil {
		t.Fatalf("find published: %v", err)
	}
	if len(posts) != 2 || posts[0].Title != "Older" {
		t.Fatalf("expected the freshly edited post first, got %+v", posts)
	}
}

func TestFindPublishedByIDIgnoresDrafts(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	draft := createTestPost(t, d, alice.ID, "Secret Draft", false)

	_, err := d.PostRepo().FindPublishedByID(draft.ID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("draft must not be readable through the public path, got %v", err)
	}
}

func TestReplaceTagsSwapsAssociations(t *testing.T) {
	d := newTestDatabase(t)
	alice := createTestUser(t, d, "alice@example.com")
	post := createTestPost(t, d, alice.ID, "Tagged", true)

	first := &models.Tag{UserID: alice.ID, Name: "first"}
	second := &models.Tag{UserID: alice.ID, Name: "second"}
	for _, tag := range []*models.Tag{first, second} {
		if err := d.TagRepo().Add(tag); err != nil {
			t.Fatalf("add tag: %v", err)
		}
	}

	if err := d.PostRepo().ReplaceTags(post, []models.Tag{*first}); err != nil {
		t.Fatalf("replace tags: %v", err)
	}
	if err := d.PostRepo().ReplaceTags(post, []models.Tag{*second}); err != nil {
		t.Fatalf("replace tags: %v", err)
	}

	reloaded, err := d.PostRepo().FindByIDAndOwner(post.ID, alice.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.Tags) != 1 || reloaded.Tags[0].Name != "second" {
		t.Fatalf("tag set should be replaced wholesale, got %+v", reloaded.Tags)
	}
}

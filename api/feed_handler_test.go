package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestIndexRedirectsSignedInUsers(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.createUser(t, "alice@example.com")

	anonymous := e.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if anonymous.Code != http.StatusOK {
		t.Fatalf("anonymous index should render, got %d", anonymous.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(e.sessionCookie(t, alice))
	signedIn := e.do(req)
	if signedIn.Code != http.StatusFound || signedIn.Header().Get("Location") != "/dashboard" {
		t.Fatalf("signed-in index should redirect to dashboard, got %d %q",
			signedIn.Code, signedIn.Header().Get("Location"))
	}
}

func TestDashboardShowsPublishedAndFilters(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.createUser(t, "alice@example.com")
	bob := e.createUser(t, "bob@example.com")

	rec := postForm(t, e, alice, "/posts", url.Values{
		"title":   {"Go Concurrency Patterns"},
		"content": {"channels everywhere"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("create failed: %d", rec.Code)
	}
	draft := postJSON(t, e, bob, "/posts/save-draft", `{"title":"Hidden Draft","content":"shh"}`)
	if draft.Code != http.StatusCreated {
		t.Fatalf("save draft failed: %d", draft.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(e.sessionCookie(t, bob))
	page := e.do(req)
	if page.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d", page.Code)
	}
	body := page.Body.String()
	if !strings.Contains(body, "Go Concurrency Patterns") {
		t.Fatal("published post missing from dashboard")
	}
	if strings.Contains(body, "Hidden Draft") {
		t.Fatal("draft leaked into dashboard")
	}

	req = httptest.NewRequest(http.MethodGet, "/dashboard?q=nomatch", nil)
	req.AddCookie(e.sessionCookie(t, bob))
	filtered := e.do(req)
	if strings.Contains(filtered.Body.String(), "Go Concurrency Patterns") {
		t.Fatal("filter should exclude non-matching posts")
	}
}

func TestBlogContentServesPublishedPost(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.createUser(t, "alice@example.com")

	rec := postForm(t, e, alice, "/posts", url.Values{
		"title":       {"Public Post"},
		"description": {"for the API"},
		"content":     {"**bold** body"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("create failed: %d", rec.Code)
	}
	posts, _ := e.db.PostRepo().FindByOwner(alice.ID)
	post := posts[0]

	// No session cookie: the content API is public.
	resp := e.do(httptest.NewRequest(http.MethodGet, "/api/blog/"+post.ID.String(), nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body blogContentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ID != post.ID.String() || body.Title != "Public Post" {
		t.Fatalf("unexpected payload: %+v", body)
	}
	if body.Content != "**bold** body" {
		t.Fatalf("content should carry the markdown source, got %q", body.Content)
	}
	if !strings.Contains(body.ContentHTML, "<strong>bold</strong>") {
		t.Fatalf("content_html should carry the rendered HTML, got %q", body.ContentHTML)
	}
	if body.Author.Name != "alice@example.com" {
		t.Fatalf("author missing, got %+v", body.Author)
	}
	if body.PublishedAt == nil {
		t.Fatal("published_at missing")
	}
}

func TestBlogContentHidesDrafts(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.createUser(t, "alice@example.com")

	draft := postJSON(t, e, alice, "/posts/save-draft", `{"title":"Not Yet","content":"wip"}`)
	if draft.Code != http.StatusCreated {
		t.Fatalf("save draft failed: %d", draft.Code)
	}
	posts, _ := e.db.PostRepo().FindByOwner(alice.ID)

	resp := e.do(httptest.NewRequest(http.MethodGet, "/api/blog/"+posts[0].ID.String(), nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("drafts must 404 through the content API, got %d", resp.Code)
	}
}

func TestProfileShowsUserAndPostCount(t *testing.T) {
	e := newTestEnv(t, nil)
	alice := e.createUser(t, "alice@example.com")

	rec := postForm(t, e, alice, "/posts", url.Values{"title": {"Only Post"}})
	if rec.Code != http.StatusFound {
		t.Fatalf("create failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(e.sessionCookie(t, alice))
	page := e.do(req)
	if page.Code != http.StatusOK {
		t.Fatalf("profile failed: %d", page.Code)
	}
	if !strings.Contains(page.Body.String(), "alice@example.com") {
		t.Fatal("profile missing user identity")
	}
	if !strings.Contains(page.Body.String(), "1 posts") {
		t.Fatal("profile missing post count")
	}
}

package client

import (
	"context"
	"testing"
)

func newControllerForTest(t *testing.T) (*ListController, map[string]*Subscriber) {
	t.Helper()
	server, subs := newFakeAPI(t)
	c := New(server.URL, WithToken("st_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"))
	return NewListController(c), subs
}

func TestListController_Create_DoesNotTouchCache(t *testing.T) {
	t.Parallel()

	lc, subs := newControllerForTest(t)

	// Prime the cache with an existing list.
	if _, err := lc.client.Create(context.Background(), "existing@example.com"); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if err := lc.Find(context.Background()); err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	cachedLen := len(lc.Items)

	if err := lc.Create(context.Background(), "new@example.com"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The server has the new record but the local cache is untouched;
	// the subscribe form shows the confirmation message instead.
	if len(subs) != cachedLen+1 {
		t.Errorf("server should hold %d subscribers, has %d", cachedLen+1, len(subs))
	}
	if len(lc.Items) != cachedLen {
		t.Errorf("local cache grew to %d, want %d (create must not append)", len(lc.Items), cachedLen)
	}
	if lc.Success != SuccessMessage {
		t.Errorf("Success = %q, want %q", lc.Success, SuccessMessage)
	}
	if lc.Err != "" {
		t.Errorf("Err = %q, want empty", lc.Err)
	}
}

func TestListController_Create_Failure(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	if err := lc.Create(context.Background(), ""); err == nil {
		t.Fatal("Create with empty email should fail")
	}

	if lc.Err != "Please enter your email address" {
		t.Errorf("Err = %q, want the server's message", lc.Err)
	}
	if lc.Success != "" {
		t.Errorf("Success = %q, want empty on failure", lc.Success)
	}
}

func TestListController_Find_ReplacesCache(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	// Stale entry that no longer exists server-side.
	lc.Items = []*Subscriber{{ID: "stale", Email: "stale@example.com"}}

	if _, err := lc.client.Create(context.Background(), "fresh@example.com"); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	if err := lc.Find(context.Background()); err != nil {
		t.Fatalf("Find failed: %v", err)
	}

	if len(lc.Items) != 1 {
		t.Fatalf("cache length = %d, want 1", len(lc.Items))
	}
	if lc.Items[0].Email != "fresh@example.com" {
		t.Errorf("cache entry = %q, want fresh@example.com (full replacement)", lc.Items[0].Email)
	}
}

func TestListController_FindOne(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	created, err := lc.client.Create(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	if err := lc.FindOne(context.Background(), created.ID); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if lc.Current == nil || lc.Current.ID != created.ID {
		t.Errorf("Current = %+v, want the loaded subscriber", lc.Current)
	}
}

func TestListController_FindOne_Unknown(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	if err := lc.FindOne(context.Background(), "missing"); err == nil {
		t.Fatal("FindOne for unknown id should fail")
	}
	if lc.Err != "Failed to load subscriber missing" {
		t.Errorf("Err = %q", lc.Err)
	}
	if lc.Current != nil {
		t.Errorf("Current should stay nil, got %+v", lc.Current)
	}
}

func TestListController_Remove_SplicesByIdentity(t *testing.T) {
	t.Parallel()

	lc, subs := newControllerForTest(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := lc.client.Create(context.Background(), email); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}
	if err := lc.Find(context.Background()); err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(lc.Items) != 3 {
		t.Fatalf("cache length = %d, want 3", len(lc.Items))
	}

	victim := lc.Items[1]
	if err := lc.Remove(context.Background(), victim); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if len(lc.Items) != 2 {
		t.Fatalf("cache length = %d, want 2 after splice", len(lc.Items))
	}
	for _, item := range lc.Items {
		if item == victim {
			t.Error("removed element still present in cache")
		}
	}
	if _, ok := subs[victim.ID]; ok {
		t.Error("subscriber still present server-side")
	}
}

func TestListController_Remove_FailureKeepsCache(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	// An element the server does not know: delete fails with 404 and the
	// cache must not be spliced.
	ghost := &Subscriber{ID: "ghost", Email: "ghost@example.com"}
	lc.Items = []*Subscriber{ghost}

	if err := lc.Remove(context.Background(), ghost); err == nil {
		t.Fatal("Remove of unknown subscriber should fail")
	}
	if len(lc.Items) != 1 {
		t.Errorf("cache length = %d, want 1 (no splice before server confirmation)", len(lc.Items))
	}
	if lc.Err == "" {
		t.Error("Err should carry the server's message")
	}
}

func TestListController_Remove_Current(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	created, err := lc.client.Create(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if err := lc.FindOne(context.Background(), created.ID); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}

	var navigated string
	lc.Navigate = func(path string) { navigated = path }

	if err := lc.Remove(context.Background(), nil); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	if lc.Current != nil {
		t.Errorf("Current should be cleared, got %+v", lc.Current)
	}
	if navigated != "/subscribers" {
		t.Errorf("navigated to %q, want /subscribers", navigated)
	}
}

func TestListController_Remove_NoCurrent(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	if err := lc.Remove(context.Background(), nil); err != ErrNoCurrent {
		t.Errorf("Remove = %v, want ErrNoCurrent", err)
	}
}

func TestListController_Update_Navigates(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	created, err := lc.client.Create(context.Background(), "old@example.com")
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if err := lc.FindOne(context.Background(), created.ID); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}

	var navigated string
	lc.Navigate = func(path string) { navigated = path }

	lc.Current.Email = "new@example.com"
	if err := lc.Update(context.Background()); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if lc.Current.Email != "new@example.com" {
		t.Errorf("Current.Email = %q, want new@example.com", lc.Current.Email)
	}
	if navigated != "/subscribers/"+created.ID {
		t.Errorf("navigated to %q, want /subscribers/%s", navigated, created.ID)
	}
}

func TestListController_Update_NoCurrent(t *testing.T) {
	t.Parallel()

	lc, _ := newControllerForTest(t)

	if err := lc.Update(context.Background()); err != ErrNoCurrent {
		t.Errorf("Update = %v, want ErrNoCurrent", err)
	}
}

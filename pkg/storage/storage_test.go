package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/rack"
	"github.com/matzehuels/shelfplan/pkg/site"
)

func newPlan(id, site, zone string, created time.Time) *plan.Plan {
	return &plan.Plan{
		ID:         id,
		CreatedAt:  created,
		Site:       site,
		Zone:       zone,
		Rows:       4,
		Footprints: []rack.Footprint{{Floor: 1, Length: 5, Width: 1, AlongX: true}},
	}
}

// exerciseStore runs the behavior every Store must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, tc := range []struct{ site, zone string }{
		{"north", "a"}, {"north", "b"}, {"south", "a"},
	} {
		p := newPlan(fmt.Sprintf("plan-%d", i), tc.site, tc.zone, base.Add(time.Duration(i)*time.Minute))
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Get(ctx, "plan-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Site != "north" || got.Zone != "b" || len(got.Footprints) != 1 {
		t.Errorf("Get() = %+v", got)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodePlanNotFound) {
		t.Errorf("Get(missing) err = %v, want %s", err, errors.ErrCodePlanNotFound)
	}

	all, err := s.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].ID != "plan-2" || all[2].ID != "plan-0" {
		t.Errorf("List() order = %v", ids(all))
	}

	north, _ := s.List(ctx, ListOptions{Site: "north"})
	if len(north) != 2 {
		t.Errorf("List(site=north) = %v", ids(north))
	}
	zoneA, _ := s.List(ctx, ListOptions{Zone: "a", Limit: 1})
	if len(zoneA) != 1 || zoneA[0].ID != "plan-2" {
		t.Errorf("List(zone=a, limit=1) = %v", ids(zoneA))
	}

	if err := s.Delete(ctx, "plan-0"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "plan-0"); !errors.Is(err, errors.ErrCodePlanNotFound) {
		t.Errorf("second Delete err = %v", err)
	}

	if err := s.Save(ctx, newPlan("bad/id", "x", "y", base)); err == nil {
		t.Error("Save accepted an invalid id")
	}

	snap := site.Default()
	if err := s.SaveSite(ctx, "abc", snap); err != nil {
		t.Fatalf("SaveSite: %v", err)
	}
	snap.Name = "mutated"
	gotSite, err := s.GetSite(ctx, "abc")
	if err != nil {
		t.Fatalf("GetSite: %v", err)
	}
	if gotSite.Name != "warehouse" || len(gotSite.Zones) != 3 {
		t.Errorf("GetSite() = %+v", gotSite)
	}
	if _, err := s.GetSite(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetSite(missing) err = %v", err)
	}
}

func ids(ps []*plan.Plan) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	done := make(chan struct{})
	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = s.Save(ctx, newPlan(fmt.Sprintf("p%d", i), "s", "z", time.Now()))
			_, _ = s.List(ctx, ListOptions{})
		}()
	}
	for range 8 {
		<-done
	}
	if all, _ := s.List(ctx, ListOptions{}); len(all) != 8 {
		t.Errorf("got %d plans, want 8", len(all))
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("SHELFPLAN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("SHELFPLAN_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{
		URI:            uri,
		Database:       "shelfplan_test",
		Collection:     fmt.Sprintf("plans_%d", time.Now().UnixNano()),
		SiteCollection: fmt.Sprintf("sites_%d", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close()
	}()
	exerciseStore(t, s)
}

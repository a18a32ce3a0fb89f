package pypistats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/shakfu/pkgdb/pkg/stats"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL(nil, srv.URL)
}

func TestRecent(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/packages/requests/recent" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"data": {"last_day": 100, "last_week": 700, "last_month": 3000}}`)
	})

	got, err := client.Recent(context.Background(), "requests", false)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	want := RecentDownloads{LastDay: 100, LastWeek: 700, LastMonth: 3000}
	if got != want {
		t.Errorf("Recent() = %+v, want %+v", got, want)
	}
}

func TestRecentNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Recent(context.Background(), "no-such-pkg", false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Recent() error = %v, want ErrNotFound", err)
	}
}

func TestOverallSumsWithoutMirrorsOnly(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"category": "with_mirrors", "downloads": 9000},
			{"category": "without_mirrors", "downloads": 500},
			{"category": "without_mirrors", "downloads": 1500}
		]}`)
	})

	got, err := client.Overall(context.Background(), "requests", false)
	if err != nil {
		t.Fatalf("Overall() error = %v", err)
	}
	if got != 2000 {
		t.Errorf("Overall() = %d, want 2000", got)
	}
}

func TestPythonMinorDropsNullAndSorts(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"category": "3.9", "downloads": 100},
			{"category": "null", "downloads": 50},
			{"category": "3.11", "downloads": 300},
			{"category": "3.11", "downloads": 100}
		]}`)
	})

	got, err := client.PythonMinor(context.Background(), "requests", false)
	if err != nil {
		t.Fatalf("PythonMinor() error = %v", err)
	}
	want := []stats.Breakdown{
		{Category: "3.11", Downloads: 400},
		{Category: "3.9", Downloads: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PythonMinor() = %v, want %v", got, want)
	}
}

func TestSystemRelabelsNull(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [
			{"category": "Linux", "downloads": 500},
			{"category": "null", "downloads": 40}
		]}`)
	})

	got, err := client.System(context.Background(), "requests", false)
	if err != nil {
		t.Fatalf("System() error = %v", err)
	}
	want := []stats.Breakdown{
		{Category: "Linux", Downloads: 500},
		{Category: "Unknown", Downloads: 40},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("System() = %v, want %v", got, want)
	}
}

func TestFetchCombinesEndpoints(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/flask/recent":
			fmt.Fprint(w, `{"data": {"last_day": 10, "last_week": 70, "last_month": 300}}`)
		case "/packages/flask/overall":
			fmt.Fprint(w, `{"data": [{"category": "without_mirrors", "downloads": 12345}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	snap, err := client.Fetch(context.Background(), "flask", false)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if snap.Package != "flask" || snap.LastDay != 10 || snap.LastMonth != 300 || snap.Total != 12345 {
		t.Errorf("Fetch() = %+v", snap)
	}
	if snap.Date == "" {
		t.Error("Fetch() snapshot has empty date")
	}
}

func TestFetchAllReportsPerPackageErrors(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/good/recent":
			fmt.Fprint(w, `{"data": {"last_day": 1, "last_week": 7, "last_month": 30}}`)
		case "/packages/good/overall":
			fmt.Fprint(w, `{"data": [{"category": "without_mirrors", "downloads": 99}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	var done atomic.Int32
	results := client.FetchAll(context.Background(), []string{"good", "missing"}, 2, false, func(string) {
		done.Add(1)
	})

	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Package != "good" || results[0].Err != nil {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[0].Snapshot.Total != 99 {
		t.Errorf("results[0].Snapshot.Total = %d", results[0].Snapshot.Total)
	}
	if results[1].Package != "missing" || !errors.Is(results[1].Err, ErrNotFound) {
		t.Errorf("results[1] = %+v", results[1])
	}
	if done.Load() != 2 {
		t.Errorf("progress called %d times, want 2", done.Load())
	}
}

func TestAggregateEnvCombinesPackages(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/a/python_minor", "/packages/b/python_minor":
			fmt.Fprint(w, `{"data": [{"category": "3.11", "downloads": 100}]}`)
		case "/packages/a/system":
			fmt.Fprint(w, `{"data": [{"category": "Linux", "downloads": 50}]}`)
		case "/packages/b/system":
			fmt.Fprint(w, `{"data": [{"category": "Windows", "downloads": 30}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	env, err := client.AggregateEnv(context.Background(), []string{"a", "b"}, 2, false)
	if err != nil {
		t.Fatalf("AggregateEnv() error = %v", err)
	}
	wantPython := []stats.Breakdown{{Category: "3.11", Downloads: 200}}
	if !reflect.DeepEqual(env.PythonMinor, wantPython) {
		t.Errorf("PythonMinor = %v, want %v", env.PythonMinor, wantPython)
	}
	wantSystem := []stats.Breakdown{
		{Category: "Linux", Downloads: 50},
		{Category: "Windows", Downloads: 30},
	}
	if !reflect.DeepEqual(env.System, wantSystem) {
		t.Errorf("System = %v, want %v", env.System, wantSystem)
	}
}

func TestAggregateEnvSkipsFailingPackages(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/packages/a/python_minor":
			fmt.Fprint(w, `{"data": [{"category": "3.12", "downloads": 10}]}`)
		case "/packages/a/system":
			fmt.Fprint(w, `{"data": [{"category": "Darwin", "downloads": 5}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	env, err := client.AggregateEnv(context.Background(), []string{"a", "gone"}, 2, false)
	if err != nil {
		t.Fatalf("AggregateEnv() error = %v", err)
	}
	if len(env.PythonMinor) != 1 || env.PythonMinor[0].Category != "3.12" {
		t.Errorf("PythonMinor = %v", env.PythonMinor)
	}
}

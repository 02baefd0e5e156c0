package jobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const postingHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Careers | Acme</title>
  <meta property="og:title" content="Senior Go Engineer">
  <meta property="og:site_name" content="Acme Corp">
  <style>body { color: red; }</style>
</head>
<body>
  <nav>Home | Jobs</nav>
  <header>Acme</header>
  <h1>Senior Go Engineer</h1>
  <p>
    Build distributed systems.
  </p>
  <ul><li>5+ years Go</li><li>Kubernetes</li></ul>
  <script>console.log("tracking")</script>
  <footer>Copyright</footer>
</body>
</html>`

func TestParse(t *testing.T) {
	p, err := Parse(strings.NewReader(postingHTML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.Title != "Senior Go Engineer" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Errorf("Company = %q", p.Company)
	}
	for _, want := range []string{"Build distributed systems.", "5+ years Go", "Kubernetes"} {
		if !strings.Contains(p.Text, want) {
			t.Errorf("Text missing %q:\n%s", want, p.Text)
		}
	}
	for _, unwanted := range []string{"console.log", "Copyright", "Home | Jobs", "color: red"} {
		if strings.Contains(p.Text, unwanted) {
			t.Errorf("Text contains %q", unwanted)
		}
	}
	for _, line := range strings.Split(p.Text, "\n") {
		if strings.TrimSpace(line) != line || line == "" {
			t.Errorf("line not cleaned: %q", line)
		}
	}
}

func TestParseTitleFallback(t *testing.T) {
	p, err := Parse(strings.NewReader(`<html><head><title> Platform   Engineer </title></head><body>x</body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Platform Engineer" {
		t.Errorf("Title = %q", p.Title)
	}
}

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(postingHTML))
	}))
	defer srv.Close()

	f := NewFetcher("careerflow/test")
	p, err := f.Fetch(context.Background(), srv.URL+"/job")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if p.URL != srv.URL+"/job" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Title != "Senior Go Engineer" {
		t.Errorf("Title = %q", p.Title)
	}
	if gotUA != "careerflow/test" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil || !strings.Contains(err.Error(), "HTTP 404") {
		t.Errorf("error = %v, want HTTP 404", err)
	}
	if _, err := f.Fetch(context.Background(), "://bad"); err == nil {
		t.Error("expected invalid URL error")
	}
}

package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Irina-Kostina/business-search-tool/internal/domain"
)

const ddgResultPage = `<html><body>
<div class="results">
	<div class="result">
		<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.doggrooming.co.nz%2F&rut=abc">Dog Grooming Wellington</a>
	</div>
	<div class="result">
		<a class="result__a" href="https://pawsitive.nz/contact">Pawsitive</a>
	</div>
	<div class="result">
		<a class="result__a" href="https://pawsitive.nz/contact">Pawsitive again</a>
	</div>
	<div class="result">
		<a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgroomroom.co.nz">Groom Room</a>
	</div>
	<a href="https://duckduckgo.com/settings">settings</a>
</div>
</body></html>`

const bingResultPage = `<html><body>
<ol id="b_results">
	<li class="b_algo"><h2><a href="https://www.doggrooming.co.nz/">Dog Grooming</a></h2></li>
	<li class="b_algo"><h2><a href="https://pawsitive.nz/contact">Pawsitive</a></h2></li>
	<li class="b_ad"><h2><a href="https://ads.example.com/">Ad</a></h2></li>
</ol>
</body></html>`

func TestQueryBias(t *testing.T) {
	assert.Equal(t, "dog groomer Wellington site:.nz", Query("dog groomer Wellington", "site:.nz"))
	assert.Equal(t, "dog groomer Wellington", Query("dog groomer Wellington", ""))
	assert.Equal(t, "plumber", Query("  plumber  ", "  "))
}

func TestDuckDuckGoParsesAndDecodesRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dog groomer", r.URL.Query().Get("q"))
		io.WriteString(w, ddgResultPage)
	}))
	defer srv.Close()

	d := &DuckDuckGo{baseURL: srv.URL}
	urls, err := d.Search(context.Background(), "dog groomer", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.doggrooming.co.nz/",
		"https://pawsitive.nz/contact",
		"https://groomroom.co.nz",
	}, urls, "redirects decoded, duplicates and DDG-internal links dropped")
}

func TestDuckDuckGoHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, ddgResultPage)
	}))
	defer srv.Close()

	d := &DuckDuckGo{baseURL: srv.URL}
	urls, err := d.Search(context.Background(), "dog groomer", 2)
	require.NoError(t, err)
	assert.Len(t, urls, 2)
}

func TestDuckDuckGoUnavailableOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := &DuckDuckGo{baseURL: srv.URL}
	_, err := d.Search(context.Background(), "dog groomer", 5)
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestDuckDuckGoUnavailableOnUnrecognizedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><h1>Please verify you are human</h1></body></html>")
	}))
	defer srv.Close()

	d := &DuckDuckGo{baseURL: srv.URL}
	_, err := d.Search(context.Background(), "dog groomer", 5)
	assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestBingParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, bingResultPage)
	}))
	defer srv.Close()

	b := &Bing{baseURL: srv.URL}
	urls, err := b.Search(context.Background(), "dog groomer", 10)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://www.doggrooming.co.nz/",
		"https://pawsitive.nz/contact",
	}, urls, "only organic b_algo results are taken")
}

func TestDecodeRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://direct.co.nz/page", "https://direct.co.nz/page"},
		{"//duckduckgo.com/l/?uddg=https%3A%2F%2Ftarget.co.nz%2Fa%3Fb%3D1", "https://target.co.nz/a?b=1"},
		{"//duckduckgo.com/l/?rut=onlynoise", ""},
		{"javascript:void(0)", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeRedirect(tt.in), tt.in)
	}
}

type stubEngine struct {
	name string
	urls []string
	err  error
}

func (s *stubEngine) Name() string { return s.name }
func (s *stubEngine) Search(context.Context, string, int) ([]string, error) {
	return s.urls, s.err
}

func TestResultsFallsThroughFailedEngines(t *testing.T) {
	urls := Results(context.Background(), "q", 5,
		&stubEngine{name: "down", err: errors.New("boom")},
		&stubEngine{name: "empty"},
		&stubEngine{name: "up", urls: []string{"https://a.co.nz"}},
	)
	assert.Equal(t, []string{"https://a.co.nz"}, urls)
}

func TestResultsDegradesToNothing(t *testing.T) {
	urls := Results(context.Background(), "q", 5,
		&stubEngine{name: "down", err: domain.ErrSearchUnavailable},
	)
	assert.Nil(t, urls)
}

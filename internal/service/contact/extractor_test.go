package contact

import (
	"context"
	"net/http"
	"testing"

	"github.com/octobees/prospector/internal/entity"
)

type stubFetcher struct {
	pages map[string]entity.FetchOutcome
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) entity.FetchOutcome {
	s.calls = append(s.calls, url)
	if out, ok := s.pages[url]; ok {
		return out
	}
	return entity.FetchOutcome{HTTPStatus: http.StatusNotFound}
}

func TestBestAnchor(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"highest score wins": {
			body: `<a href="/about/">会社概要</a>
				<a href="/support/mail/form/">メールフォーム</a>
				<a href="/contact/">お問い合わせ</a>`,
			want: "https://abc.co.jp/contact/",
		},
		"tie keeps document order": {
			body: `<a href="/inquiry/">Inquiry</a><a href="/contact/">Contact</a>`,
			want: "https://abc.co.jp/inquiry/",
		},
		"off-domain dropped": {
			body: `<a href="https://forms.example.com/contact">お問い合わせ</a>`,
			want: "",
		},
		"www variant is same site": {
			body: `<a href="https://www.abc.co.jp/contact">Contact</a>`,
			want: "https://www.abc.co.jp/contact",
		},
		"mailto and javascript dropped": {
			body: `<a href="mailto:info@abc.co.jp">お問い合わせ</a><a href="javascript:void(0)">contact</a>`,
			want: "",
		},
		"fragment other than contact dropped": {
			body: `<a href="#inquiry">お問い合わせ</a>`,
			want: "",
		},
		"contact fragment accepted": {
			body: `<a href="#contact">お問い合わせ</a>`,
			want: "https://abc.co.jp/#contact",
		},
		"real page preferred over contact fragment": {
			body: `<a href="#contact">Contact</a><a href="/contact/">Contact</a>`,
			want: "https://abc.co.jp/contact/",
		},
		"relative path resolved": {
			body: `<a href="contact.html">お問合せ</a>`,
			want: "https://abc.co.jp/contact.html",
		},
		"no contact-like anchors": {
			body: `<a href="/news/">News</a><a href="/products/">Products</a>`,
			want: "",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := BestAnchor(tc.body, "https://abc.co.jp"); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFindContactURLFallsBackToProbing(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]entity.FetchOutcome{
		"https://abc.co.jp/contact":  {Succeeded: true, HTTPStatus: 200, Body: "<h1>Not here</h1>"},
		"https://abc.co.jp/inquiry/": {Succeeded: true, HTTPStatus: 200, Body: `<form action="/send"></form>`},
	}}
	e := NewExtractor(fetcher)

	got, body := e.FindContactURL(context.Background(), `<a href="/news/">News</a>`, "https://abc.co.jp")
	if got != "https://abc.co.jp/inquiry/" {
		t.Fatalf("expected probed inquiry page, got %q", got)
	}
	if body != `<form action="/send"></form>` {
		t.Fatalf("expected contact page body to be returned, got %q", body)
	}
	if len(fetcher.calls) != 3 {
		t.Fatalf("expected probing to stop at first hit, got calls %v", fetcher.calls)
	}
}

func TestFindContactURLNoProbeWhenAnchorFound(t *testing.T) {
	fetcher := &stubFetcher{}
	e := NewExtractor(fetcher)
	got, body := e.FindContactURL(context.Background(), `<a href="/contact/">お問い合わせ</a>`, "https://abc.co.jp")
	if got != "https://abc.co.jp/contact/" || body != "" {
		t.Fatalf("unexpected contact url %q", got)
	}
	if len(fetcher.calls) != 0 {
		t.Fatalf("expected no probes, got %v", fetcher.calls)
	}
}

func TestFindContactURLNothingFound(t *testing.T) {
	e := NewExtractor(&stubFetcher{}, WithProbePaths([]string{"/contact/"}))
	if got, _ := e.FindContactURL(context.Background(), "", "https://abc.co.jp"); got != "" {
		t.Fatalf("expected empty contact url, got %q", got)
	}
}

func TestIsSamePageAnchor(t *testing.T) {
	if !IsSamePageAnchor("https://abc.co.jp/#contact") || IsSamePageAnchor("https://abc.co.jp/contact/") {
		t.Fatalf("unexpected anchor detection")
	}
}

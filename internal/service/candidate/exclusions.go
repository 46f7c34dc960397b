package candidate

import (
	"regexp"
	"strings"

	"github.com/octobees/prospector/internal/normalize"
)

// Exclusions is the configurable rejection table applied before name extraction.
type Exclusions struct {
	// Domains match the candidate host exactly or on a label boundary
	// ("indeed.com" excludes "jp.indeed.com"). Entries starting with a dot
	// are suffixes (".go.jp").
	Domains []string
	// URLSubstrings are matched against the lower-cased hit URL.
	URLSubstrings []string
	// TitleKeywords are matched against the lower-cased title.
	TitleKeywords []string
	// ArticlePatterns reject explainer and listicle titles unless the title
	// names a legal entity.
	ArticlePatterns []*regexp.Regexp
}

// DefaultExclusions returns the built-in table of job boards, portals, media,
// social networks, directories and public-sector suffixes.
func DefaultExclusions() Exclusions {
	return Exclusions{
		Domains: []string{
			// job boards and staffing
			"indeed.com", "indeed.jp", "mynavi.jp", "rikunabi.com", "doda.jp",
			"en-japan.com", "baitoru.com", "careerconnection.jp", "jobchange.jp", "hatarako.net",
			"job-gear.jp", "e-aidem.com", "factory-job.jp", "kojo-job.jp", "job-list.net",
			"findjob.jp", "forkwell.com", "geekly.co.jp", "paiza.jp", "levtech.jp",
			"type.jp", "green-japan.com", "mid-tenshoku.com", "herp.careers", "cheercareer.jp",
			// news and media
			"yahoo.co.jp", "nikkei.com", "asahi.com", "yomiuri.co.jp", "mainichi.jp", "sankei.com",
			"prtimes.jp", "atpress.ne.jp",
			// social
			"facebook.com", "twitter.com", "x.com", "instagram.com", "youtube.com", "tiktok.com", "linkedin.com",
			// reference, commerce, maps
			"wikipedia.org", "google.com", "amazon.co.jp", "rakuten.co.jp",
			"navitime.co.jp", "mapion.co.jp", "mapfan.com", "ekiten.jp",
			"hotpepper.jp", "tabelog.com", "gnavi.co.jp", "retty.me",
			// company directories and reviews
			"bizmap.jp", "baseconnect.in", "wantedly.com", "vorkers.com", "openwork.jp",
			"imitsu.jp", "houjin.jp", "itnabi.com", "officenomikata.jp",
			// blogs
			"note.com", "qiita.com", "zenn.dev", "hateblo.jp", "ameblo.jp",
			// public sector and education
			".go.jp", ".lg.jp", ".ed.jp", ".ac.jp",
		},
		URLSubstrings: []string{
			"/recruit", "/career", "/job/", "/jobs/", "/ranking", "/matome",
		},
		TitleKeywords: []string{
			"転職", "求人", "採用情報", "年収", "就職", "インターン", "派遣", "正社員",
			"アルバイト", "パート", "就活", "新卒", "企業検索", "会社検索", "法人検索",
			"企業データベース", "社を紹介", "社まとめ", "件を紹介", "企業を紹介",
			"徹底比較", "口コミ", "評判", "top100", "top50", "top10", "ランキング",
		},
		ArticlePatterns: []*regexp.Regexp{
			regexp.MustCompile(`\d+選`),
			regexp.MustCompile(`とは[？?]?\s*$|とは[|｜]`),
			regexp.MustCompile(`厳選|完全ガイド|徹底解説|まとめ記事`),
		},
	}
}

// Merge appends the entries of other to a copy of e.
func (e Exclusions) Merge(other Exclusions) Exclusions {
	return Exclusions{
		Domains:         append(append([]string{}, e.Domains...), other.Domains...),
		URLSubstrings:   append(append([]string{}, e.URLSubstrings...), other.URLSubstrings...),
		TitleKeywords:   append(append([]string{}, e.TitleKeywords...), other.TitleKeywords...),
		ArticlePatterns: append(append([]*regexp.Regexp{}, e.ArticlePatterns...), other.ArticlePatterns...),
	}
}

func (e Exclusions) compile() compiledExclusions {
	c := compiledExclusions{articles: e.ArticlePatterns}
	for _, d := range e.Domains {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if strings.HasPrefix(d, ".") {
			c.suffixes = append(c.suffixes, strings.ToLower(d))
			continue
		}
		c.domains = append(c.domains, normalize.Host(d))
	}
	for _, s := range e.URLSubstrings {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			c.urlSubstrings = append(c.urlSubstrings, s)
		}
	}
	for _, s := range e.TitleKeywords {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			c.titleKeywords = append(c.titleKeywords, s)
		}
	}
	return c
}

type compiledExclusions struct {
	domains       []string
	suffixes      []string
	urlSubstrings []string
	titleKeywords []string
	articles      []*regexp.Regexp
}

func (c compiledExclusions) domainExcluded(domain string) bool {
	for _, s := range c.suffixes {
		if strings.HasSuffix(domain, s) {
			return true
		}
	}
	for _, d := range c.domains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return true
		}
	}
	return false
}

func (c compiledExclusions) urlExcluded(rawURL string) bool {
	return containsAny(strings.ToLower(rawURL), c.urlSubstrings)
}

// titleExcluded applies the title keywords to every hit. Article patterns are
// skipped for titles with a legal form and for .co.jp domains, which only
// registered companies can hold.
func (c compiledExclusions) titleExcluded(title, domain string) bool {
	if containsAny(strings.ToLower(title), c.titleKeywords) {
		return true
	}
	if normalize.HasLegalForm(title) || strings.HasSuffix(domain, ".co.jp") {
		return false
	}
	for _, re := range c.articles {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

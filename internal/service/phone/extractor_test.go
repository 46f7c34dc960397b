package phone

import "testing"

func TestFindTierPriority(t *testing.T) {
	pages := []Page{
		{URL: "https://abc.co.jp", Body: `<p>本社 045-123-4567</p><a href="tel:0312345678">電話する</a>`},
	}
	if got := Find(pages); got != "03-1234-5678" {
		t.Fatalf("expected tel link to win, got %q", got)
	}
}

func TestFindTierIsGlobalAcrossPages(t *testing.T) {
	pages := []Page{
		{URL: "https://abc.co.jp", Body: `<p>TEL: 045-123-4567</p>`},
		{URL: "https://abc.co.jp/contact/", Body: `<a href="tel:06-1234-5678">call</a>`},
	}
	if got := Find(pages); got != "06-1234-5678" {
		t.Fatalf("expected tel link on later page to win, got %q", got)
	}
}

func TestFindLabeledBeforeBare(t *testing.T) {
	pages := []Page{
		{Body: `<p>受付番号 0466-22-1234</p>`},
		{Body: `<p>電話番号：０４５－９８７－６５４３</p>`},
	}
	if got := Find(pages); got != "045-987-6543" {
		t.Fatalf("expected labelled number, got %q", got)
	}
}

func TestFindLabelIsWholeWord(t *testing.T) {
	pages := []Page{
		{Body: `<p>Hotel 045-111-2222</p><p>Intel 045-333-4444</p>`},
		{Body: `<p>telecom 03-5555-6666</p><p>TEL03-1234-5678</p>`},
	}
	if got := Find(pages); got != "03-1234-5678" {
		t.Fatalf("expected the standalone TEL label to win, got %q", got)
	}
}

func TestFindBareSkipsFax(t *testing.T) {
	pages := []Page{{Body: `<p>FAX 045-123-9999</p><p>本社 045-123-4567</p>`}}
	if got := Find(pages); got != "045-123-4567" {
		t.Fatalf("expected fax to be skipped, got %q", got)
	}
}

func TestFindIgnoresScripts(t *testing.T) {
	pages := []Page{{Body: `<script>var id = "0312345678";</script><p>no phone here</p>`}}
	if got := Find(pages); got != "" {
		t.Fatalf("expected no phone, got %q", got)
	}
}

func TestFindRejectsPlaceholders(t *testing.T) {
	pages := []Page{{Body: `<a href="tel:0000000000">x</a><p>TEL 03-0000-1234</p>`}}
	if got := Find(pages); got != "" {
		t.Fatalf("expected placeholders to be rejected, got %q", got)
	}
}

func TestFindNothing(t *testing.T) {
	if got := Find(nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"0312345678":   true,
		"09012345678":  true,
		"312345678":    false,
		"012345678901": false,
		"1312345678":   false,
		"0300001234":   false,
		"0111111111":   false,
		"03-1234-5678": false,
	}
	for in, want := range cases {
		if got := Valid(in); got != want {
			t.Fatalf("Valid(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := map[string]string{
		"0312345678":  "03-1234-5678",
		"0612345678":  "06-1234-5678",
		"09012345678": "090-1234-5678",
		"05012345678": "050-1234-5678",
		"0120123456":  "0120-123-456",
		"08001234567": "0800-123-4567",
		"0451234567":  "045-123-4567",
		"04612345678": "046-1234-5678",
	}
	for in, want := range cases {
		if got := Format(in); got != want {
			t.Fatalf("Format(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDigits(t *testing.T) {
	cases := map[string]string{
		"03-1234-5678":      "0312345678",
		"+81-3-1234-5678":   "0312345678",
		"+81 (0)3 1234 5678": "0312345678",
		"０３（１２３４）５６７８": "0312345678",
	}
	for in, want := range cases {
		if got := Digits(in); got != want {
			t.Fatalf("Digits(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestE164(t *testing.T) {
	if got := E164("03-1234-5678", ""); got != "+81312345678" {
		t.Fatalf("unexpected e164 %q", got)
	}
	if got := E164("", "JP"); got != "" {
		t.Fatalf("expected empty e164 for empty input")
	}
}

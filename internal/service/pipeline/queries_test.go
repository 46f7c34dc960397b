package pipeline

import (
	"reflect"
	"testing"
)

func TestSplitKeyword(t *testing.T) {
	tests := []struct {
		keyword, area, industry string
	}{
		{"東京 IT企業", "東京", "IT企業"},
		{"製造業 横浜", "横浜", "製造業"},
		{"港区 Web制作 会社", "港区", "Web制作 会社"},
		{"物流", "", "物流"},
		{"東京 大阪 飲食", "大阪", "飲食"},
	}
	for _, tt := range tests {
		area, industry := SplitKeyword(tt.keyword)
		if area != tt.area || industry != tt.industry {
			t.Fatalf("SplitKeyword(%q) = %q, %q; want %q, %q", tt.keyword, area, industry, tt.area, tt.industry)
		}
	}
}

func TestRetryQueriesRoundOne(t *testing.T) {
	got := RetryQueries("東京 IT企業", 1, nil)
	want := []string{
		"東京 IT企業", "東京 システム開発", "東京 Web制作", "東京 アプリ開発", "東京 SaaS", "東京 クラウド",
		"東京 AI", "東京 セキュリティ", "東京 インフラ", "東京 データ分析", "東京 DX推進", "東京 SES",
		"東京 IT企業 ベンチャー", "東京 IT企業 スタートアップ", "東京 IT企業 中堅", "東京 IT企業 老舗",
		"東京 IT企業 株式会社", "東京 システム開発 株式会社", "東京 Web制作 株式会社",
		"東京 IT企業 site:co.jp", "東京 システム開発 site:co.jp", "東京 Web制作 site:co.jp",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected round 1 queries:\n got %v\nwant %v", got, want)
	}
}

func TestRetryQueriesRoundOneUnknownIndustry(t *testing.T) {
	got := RetryQueries("釣具", 1, nil)
	if len(got) == 0 || got[0] != "釣具 株式会社" || got[4] != "釣具 site:co.jp" {
		t.Fatalf("expected generic variants, got %v", got)
	}
}

func TestRetryQueriesRoundTwo(t *testing.T) {
	got := RetryQueries("福岡 物流", 2, nil)
	want := []string{
		"福岡市博多区 物流", "福岡市博多区 物流 株式会社",
		"福岡市中央区 物流", "福岡市中央区 物流 株式会社",
		"北九州市 物流", "北九州市 物流 株式会社",
		"久留米市 物流", "久留米市 物流 株式会社",
		"福岡 物流 上場企業", "福岡 物流 非上場", "福岡 物流 急成長", "福岡 物流 設立 2020年以降",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected round 2 queries:\n got %v\nwant %v", got, want)
	}

	got = RetryQueries("仙台 建設", 2, nil)
	if got[0] != "仙台市 建設" || got[2] != "仙台区 建設" {
		t.Fatalf("expected city and ward fallback for an unlisted area, got %v", got)
	}
	got = RetryQueries("建設", 2, nil)
	if len(got) != len(attributeWords) {
		t.Fatalf("expected attribute queries only without an area, got %v", got)
	}
}

func TestRetryQueriesRoundThree(t *testing.T) {
	got := RetryQueries("札幌 飲食", 3, nil)
	want := []string{
		"旭川 飲食", "旭川 飲食 株式会社",
		"函館 飲食", "函館 飲食 株式会社",
		"小樽 飲食", "小樽 飲食 株式会社",
		"札幌 飲食 BtoB", "札幌 飲食 自社サービス", "札幌 飲食 グローバル", "札幌 飲食 IPO",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected round 3 queries:\n got %v\nwant %v", got, want)
	}
	if !reflect.DeepEqual(RetryQueries("札幌 飲食", 4, nil), got) {
		t.Fatalf("expected rounds past 3 to repeat the last round")
	}
}

func TestRetryQueriesSkipsUsed(t *testing.T) {
	used := map[string]struct{}{"東京 IT企業": {}, "東京 システム開発": {}, "東京 IT企業 ベンチャー": {}}
	got := RetryQueries("  東京   IT企業 ", 1, used)
	for _, q := range got {
		if _, ok := used[q]; ok {
			t.Fatalf("used query %q returned again", q)
		}
	}
	if got[0] != "東京 Web制作" {
		t.Fatalf("expected first unused variant, got %v", got)
	}
	if RetryQueries("", 1, nil) != nil || RetryQueries("東京 IT", 0, nil) != nil {
		t.Fatalf("expected nil for blank keyword or round 0")
	}
}
